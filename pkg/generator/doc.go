// Package generator wires the proxyforge pipeline together.
//
// Synthesize is the pure core: it validates a key-value source, plans the
// route table, resolves every policy and renders the bundle without touching
// the filesystem. Run adds the collaborators around it:
//
//	load env  ->  Synthesize  ->  write bundle  ->  ensure network
//
// Every stage is timed into the metrics collector and traced as a child of
// one proxyforge.generate span. The first failing stage aborts the run.
package generator
