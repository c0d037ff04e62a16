// Package grammar recognizes the fixed-offset textual zone forms, such as
// "UTC", "GMT", "UTC+02:00" and "+0200", and constructs the corresponding
// fixed zones. It performs no I/O.
package grammar
