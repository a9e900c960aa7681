// Package process ties external converter processes to their caller's context.
//
// Configure puts a command in its own process group and replaces the default
// cancel behavior (kill the direct child) with a kill of the whole group.
// PlantUML runs inside a JVM that may spawn helpers (Graphviz dot); killing
// only the java process would leave those behind.
package process
