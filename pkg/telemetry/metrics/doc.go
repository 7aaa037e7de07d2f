// Package metrics records Prometheus metrics about proxyforge generation runs.
//
// # Overview
//
// A generation run is a short-lived process, so metrics are not scraped.
// They are written once, in the node_exporter textfile format, to a path
// chosen by the operator:
//
//	collector := metrics.NewCollector(metrics.Config{}, nil)
//	collector.RecordStage(metrics.StageRender, time.Since(start))
//	collector.SetInventory(metrics.Inventory{Services: 3, Documents: 5})
//	collector.RecordResult(metrics.ResultSuccess)
//	if err := collector.WriteTextfile("/var/lib/node_exporter/proxyforge.prom"); err != nil {
//	    return err
//	}
//
// # Metrics
//
//   - proxyforge_generator_runs_total: runs by result (success or error class)
//   - proxyforge_generator_stage_duration_seconds: duration of each pipeline stage
//   - proxyforge_generator_services: services by state (routed, skipped)
//   - proxyforge_generator_routes: route table entries by kind
//   - proxyforge_generator_certificates: domains by certificate list (issuance, renewal)
//   - proxyforge_generator_documents: documents in the last bundle
//   - proxyforge_generator_bundle_bytes: total size of the last bundle
//   - proxyforge_generator_last_success_timestamp_seconds: completion time of the last good run
package metrics
