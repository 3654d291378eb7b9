// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import "fmt"

// CandidateID identifies one of the two candidates on the ballot.
type CandidateID int

const (
	Candidate1 CandidateID = 0
	Candidate2 CandidateID = 1
)

func (id CandidateID) String() string {
	switch id {
	case Candidate1:
		return "candidate_1"
	case Candidate2:
		return "candidate_2"
	default:
		return fmt.Sprintf("candidate(%d)", int(id))
	}
}

// Valid reports whether id belongs to the closed candidate set.
func (id CandidateID) Valid() bool {
	return id == Candidate1 || id == Candidate2
}

type Candidate struct {
	ID   CandidateID `json:"id"`
	Name string      `json:"name"`
	Code string      `json:"code"`
	Bio  string      `json:"bio"`
}

var candidates = []Candidate{
	{
		ID:   Candidate1,
		Name: "Jenisvaldo Catanduvas",
		Code: "11",
		Bio: "Seu histórico de corrupção é antigo e conhecido, mas muitas pessoas lesadas " +
			"ainda votam em Jenisvaldo.",
	},
	{
		ID:   Candidate2,
		Name: "Abirobaldo Jabuticaba",
		Code: "85",
		Bio: "Teve pais que lhe ensinaram a ser honesto. Sonha em melhorar a " +
			"vida das pessoas, e fazer crescer o seu país.",
	},
}

// Candidates returns the ballot in display order.
func Candidates() []Candidate {
	out := make([]Candidate, len(candidates))
	copy(out, candidates)
	return out
}

// LookupCandidate returns the candidate with the given id.
func LookupCandidate(id CandidateID) (Candidate, error) {
	for _, c := range candidates {
		if c.ID == id {
			return c, nil
		}
	}
	return Candidate{}, fmt.Errorf("%w: %d", ErrInvalidCandidate, int(id))
}
