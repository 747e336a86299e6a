// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing envelopes, resources, sessions and run
// contexts. They are not intended for production usage.
package testutil
