// Package preflight checks that the directories and documents a conversion
// needs are reachable with the right permissions before anything is written.
//
// The CLI "lightdance config validate" prints each Result; convert relies on
// the same checks failing fast through the loaders instead.
package preflight
