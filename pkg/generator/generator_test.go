package generator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"proxyforge-hq/proxyforge/pkg/config"
	"proxyforge-hq/proxyforge/pkg/config/configtest"
	"proxyforge-hq/proxyforge/pkg/render"
	"proxyforge-hq/proxyforge/pkg/telemetry/metrics"
	"proxyforge-hq/proxyforge/pkg/telemetry/tracing"
)

type fakeProber struct {
	exists  bool
	err     error
	created []string
}

func (f *fakeProber) Exists(ctx context.Context, name string) (bool, error) {
	return f.exists, f.err
}

func (f *fakeProber) Create(ctx context.Context, name string) error {
	f.created = append(f.created, name)
	return nil
}

func testEnv(t *testing.T) *configtest.Env {
	return configtest.NewEnv().
		Set(config.KeyLogPath, filepath.Join(t.TempDir(), "logs")).
		Set(config.KeyNetworkName, "edge").
		WithCertbot("ops@example.com", true).
		AddService(configtest.ServiceSpec{Name: "api", Path: "/api", Port: 8080}).
		AddService(configtest.ServiceSpec{Name: "shop", Domain: "shop.example.com", Port: 4000, SSL: true})
}

func TestSynthesize(t *testing.T) {
	res, err := Synthesize(testEnv(t).Source())
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	if !res.Table.HasFallback() {
		t.Error("expected fallback root rule")
	}
	if got := strings.Join(res.Certificates.Issuance, ","); got != "shop.example.com" {
		t.Errorf("Issuance = %q, want shop.example.com", got)
	}
	if res.Certificates.EmitRenewal() {
		t.Error("no service opted into renewal")
	}
	if _, ok := res.Bundle.Document(render.DomainConfPath("shop.example.com")); !ok {
		t.Errorf("domain document missing from %v", res.Bundle.Paths())
	}
}

func TestSynthesize_ValidationError(t *testing.T) {
	src := testEnv(t).Unset(config.KeyServiceCount).Source()

	_, err := Synthesize(src)
	if !errors.Is(err, config.ErrMissingConfiguration) {
		t.Errorf("Synthesize() error = %v, want ErrMissingConfiguration", err)
	}
}

func TestRun(t *testing.T) {
	out := filepath.Join(t.TempDir(), "generated")
	metricsFile := filepath.Join(t.TempDir(), "proxyforge.prom")
	prober := &fakeProber{}

	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	collector := metrics.NewCollector(metrics.Config{}, nil)

	summary, err := Run(context.Background(), Options{
		Source:      testEnv(t).Source(),
		OutputDir:   out,
		Prober:      prober,
		MetricsFile: metricsFile,
		Tracer:      tracing.NewWithProvider(provider),
		Metrics:     collector,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	// Documents on disk
	for _, doc := range summary.Documents {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(doc))); err != nil {
			t.Errorf("document %s not written: %v", doc, err)
		}
	}
	if len(summary.Documents) != 4 {
		t.Errorf("Documents = %v, want 4", summary.Documents)
	}

	// Network
	if !summary.NetworkCreated || strings.Join(prober.created, ",") != "edge" {
		t.Errorf("network created = %v (%v), want edge", summary.NetworkCreated, prober.created)
	}

	// Summary text
	text := summary.String()
	for _, want := range []string{
		"Generated 4 documents",
		"api -> http://api:8080 [/api]",
		"shop -> http://shop:4000 [https://shop.example.com]",
		"Root path: fallback responder",
		"Certificates: shop.example.com",
		"Network: edge (created)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}

	if summary.TraceID == "" || !strings.Contains(text, "Trace: "+summary.TraceID) {
		t.Errorf("TraceID = %q, want the run trace in the summary", summary.TraceID)
	}

	// Spans
	var names []string
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
	}
	want := "proxyforge.config.build,proxyforge.routing.plan,proxyforge.policy.resolve,proxyforge.render,proxyforge.output.write,proxyforge.network.ensure,proxyforge.generate"
	if strings.Join(names, ",") != want {
		t.Errorf("spans = %v, want %s", names, want)
	}

	// Metrics
	data, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	for _, want := range []string{
		`proxyforge_generator_runs_total{result="success"} 1`,
		"proxyforge_generator_documents 4",
		`proxyforge_generator_routes{kind="fallback"} 1`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics missing %q:\n%s", want, data)
		}
	}
}

func TestRun_SkipNetwork(t *testing.T) {
	prober := &fakeProber{err: errors.New("must not be called")}

	summary, err := Run(context.Background(), Options{
		Source:      testEnv(t).Source(),
		OutputDir:   filepath.Join(t.TempDir(), "out"),
		SkipNetwork: true,
		Prober:      prober,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.NetworkChecked {
		t.Error("NetworkChecked = true with SkipNetwork")
	}
	if summary.TraceID != "" {
		t.Errorf("TraceID = %q without a tracer, want empty", summary.TraceID)
	}
	if !strings.Contains(summary.String(), "Network: edge (not checked)") {
		t.Errorf("summary = %s", summary)
	}
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name    string
		opts    func(t *testing.T) Options
		wantErr error
		label   string
	}{
		{
			name: "validation",
			opts: func(t *testing.T) Options {
				return Options{
					Source: testEnv(t).
						AddService(configtest.ServiceSpec{Name: "web", Path: "/", Port: 80}).
						AddService(configtest.ServiceSpec{Name: "www", Path: "/", Port: 80}).
						Source(),
					OutputDir: filepath.Join(t.TempDir(), "out"),
				}
			},
			wantErr: config.ErrInvalidCombination,
			label:   "invalid-combination",
		},
		{
			name: "network",
			opts: func(t *testing.T) Options {
				return Options{
					Source:    testEnv(t).Source(),
					OutputDir: filepath.Join(t.TempDir(), "out"),
					Prober:    &fakeProber{err: errors.New("daemon down")},
				}
			},
			wantErr: config.ErrResourceUnavailable,
			label:   "resource-unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts(t)
			collector := metrics.NewCollector(metrics.Config{}, nil)
			opts.Metrics = collector

			_, err := Run(context.Background(), opts)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Run() error = %v, want %v", err, tt.wantErr)
			}

			expected := strings.NewReader(`
# HELP proxyforge_generator_runs_total Total number of generation runs by result
# TYPE proxyforge_generator_runs_total counter
proxyforge_generator_runs_total{result="` + tt.label + `"} 1
`)
			if err := testutil.GatherAndCompare(collector.Registry(), expected, "proxyforge_generator_runs_total"); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestRun_LoadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")

	var lines []string
	for k, v := range testEnv(t).Source() {
		lines = append(lines, k+"="+v)
	}
	if err := os.WriteFile(envFile, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	summary, err := Run(context.Background(), Options{
		EnvFile:     envFile,
		OutputDir:   filepath.Join(dir, "out"),
		SkipNetwork: true,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.Network != "edge" {
		t.Errorf("Network = %q, want edge", summary.Network)
	}
}
