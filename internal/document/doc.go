// Package document holds the shared mutable text state edited by a pane.
//
// A Document guards its content, bound resource and history with a
// lock.Guard. Mutations go through Update, which runs a function with write
// access and reports whether the content changed. Documents replicate to each
// other through subscribers: Publish delivers the committed content to every
// attached subscriber, and Apply installs a received update while the
// document's suppression flag is raised, so the application itself never
// publishes again.
//
// Two documents paired with Pair converge after a single propagation round.
package document
