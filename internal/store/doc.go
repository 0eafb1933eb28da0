// Package store defines the persistence collaborators of the practice core:
// CardStateStore for spaced repetition progress and ReferenceSource for
// stroke data and the word list. It also owns the snapshot format used by
// export and import, and transaction helpers shared by SQL implementations.
package store
