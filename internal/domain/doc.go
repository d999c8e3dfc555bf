// Package domain contains the core entities of the spaced repetition
// scheduler: vocabulary items, cards, folders, streak state, and review
// results. Entities validate themselves; all scheduling decisions live in
// the policy package and all persistence in the store implementations.
package domain
