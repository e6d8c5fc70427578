// Package procgroup configures external processes so they stop together with
// the context that started them.
package procgroup
