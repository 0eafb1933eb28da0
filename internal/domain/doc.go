// Package domain contains the core entities of the practice system: ratings,
// per-card review state and the ordering of the review queue. It has no
// knowledge of storage, transport or rendering.
//
// The stroke judging pipeline lives in the stroke subpackage and the review
// scheduler in the srs subpackage.
package domain
