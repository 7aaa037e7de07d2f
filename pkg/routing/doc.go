// Package routing derives the path-routing and domain-routing tables of a
// proxy deployment from the ordered service list.
//
// The two tables are orthogonal: a service may appear in both, one or
// neither. Path routing always answers the root path, either through the
// root service or through a synthesised fallback acknowledgment.
package routing
