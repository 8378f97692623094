// Package exitcodes defines the process exit codes used by simple.
//
// * Success (0): every executed test passed
// * TestFailure (1): at least one test is broken or failed
// * RuntimeErr (2): configuration, discovery or other errors that abort the run
package exitcodes

const (
	Success     = 0
	TestFailure = 1
	RuntimeErr  = 2
)
