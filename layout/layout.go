// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package layout

import (
	"math"

	"github.com/danielhkuo/magic-vote/ledger"
)

const (
	// DefaultTokenSize is the side of a vote token in pixels.
	DefaultTokenSize = 96.0

	// DefaultMaxStackHeight is the number of tokens after which the stack
	// has covered most of its bucket.
	DefaultMaxStackHeight = 10.0

	// StackTilt is the X and Z rotation, in degrees, of every stacked token.
	StackTilt = 45.0

	// fadeStart scales maxStackHeight to the index past which tokens
	// start fading out.
	fadeStart = 2.5
)

// Rect is a bucket's bounding box in viewport coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Transform is where and how a token should be drawn. Rotations are in
// degrees.
type Transform struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	RotationX float64 `json:"rotation_x"`
	RotationZ float64 `json:"rotation_z"`
	Opacity   float64 `json:"opacity"`
}

// Sigmoid maps [0, +inf) onto [0, 1), with Sigmoid(0) == 0.
func Sigmoid(x float64) float64 {
	return 2*(1/(1+math.Exp(-2*x))) - 1
}

// ComputeVoteLayout positions candidateID's votes inside bucket. votes may
// hold votes for any candidate; only candidateID's are laid out. The most
// recent vote sits at the top of the bucket and older votes sink, fading
// once the stack grows past 2.5 times maxStackHeight.
func ComputeVoteLayout(votes []ledger.Vote, candidateID ledger.CandidateID, bucket Rect, tokenSize, maxStackHeight float64) map[int64]Transform {
	if maxStackHeight <= 0 {
		maxStackHeight = DefaultMaxStackHeight
	}

	x := bucket.X + bucket.Width/2
	travel := bucket.Height - tokenSize

	out := make(map[int64]Transform)
	index := 0
	for i := len(votes) - 1; i >= 0; i-- {
		v := votes[i]
		if v.CandidateID != candidateID {
			continue
		}

		depth := float64(index)
		progress := Sigmoid(depth / maxStackHeight)
		opacity := Sigmoid(math.Max(fadeStart*maxStackHeight-depth, 0) / maxStackHeight)

		out[v.ID] = Transform{
			X:         x,
			Y:         bucket.Y + tokenSize/2 + progress*travel,
			RotationX: StackTilt,
			RotationZ: StackTilt,
			Opacity:   opacity,
		}
		index++
	}
	return out
}

// ComputeBoardLayout lays out every candidate that has a bucket. Votes of
// candidates without a bucket are left out.
func ComputeBoardLayout(snap ledger.Snapshot, buckets map[ledger.CandidateID]Rect, tokenSize, maxStackHeight float64) map[int64]Transform {
	out := make(map[int64]Transform, len(snap.Votes))
	for _, c := range ledger.Candidates() {
		bucket, ok := buckets[c.ID]
		if !ok {
			continue
		}
		for id, tr := range ComputeVoteLayout(snap.Votes, c.ID, bucket, tokenSize, maxStackHeight) {
			out[id] = tr
		}
	}
	return out
}

// ComputeSpawnTransform places a freshly cast vote at the centre of the
// viewport, fanned out by its index so simultaneous spawns don't overlap.
func ComputeSpawnTransform(viewport Size, spawnIndex int) Transform {
	fan := float64(spawnIndex%6 - 3)
	return Transform{
		X:         viewport.Width / 2,
		Y:         viewport.Height / 2,
		RotationX: 0,
		RotationZ: fan * fan * 2,
		Opacity:   1,
	}
}
