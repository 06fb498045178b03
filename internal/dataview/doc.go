// Package dataview holds the pure query operations the dashboard runs over the
// cached season table: filtering, ranking, grouping and extreme-row lookup.
//
// Every function takes rows by value and returns fresh slices; none of them
// mutate their input, so the shared table can be queried from any goroutine.
package dataview
