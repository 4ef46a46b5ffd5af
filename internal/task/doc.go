// Package task defines the task variants (todo, deadline, event), their
// display and persisted line forms, and the ordered List that holds them.
package task
