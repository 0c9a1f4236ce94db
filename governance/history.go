// Copyright 2026 Quorum Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package governance

// Persisted voting-history entries are loosely-typed JSON documents written
// by earlier agent versions and potentially by other tools. Decoding is
// deliberately lenient: missing confidence defaults to zero, optional fields
// default to empty, and records missing mandatory identifying fields are
// dropped rather than failing the load. This is a deserialization boundary,
// distinct from the validated VoteDecision type.

// EncodeHistoryEntry serializes a decision to the plain-map history form
func EncodeHistoryEntry(d *VoteDecision) map[string]any {
	entry := map[string]any{
		"proposal_id": d.ProposalID,
		"vote":        string(d.Vote),
		"confidence":  d.Confidence,
	}
	if d.Reasoning != "" {
		entry["reasoning"] = d.Reasoning
	}
	if d.RiskAssessment != "" {
		entry["risk_assessment"] = string(d.RiskAssessment)
	}
	if d.StrategyUsed != "" {
		entry["strategy_used"] = string(d.StrategyUsed)
	}
	if d.Executed {
		entry["executed"] = true
	}
	if d.TransactionHash != "" {
		entry["transaction_hash"] = d.TransactionHash
	}
	return entry
}

// DecodeHistoryEntry leniently parses one raw history record. Returns false
// for records that are not map-shaped or lack a proposal ID or a
// recognizable vote.
func DecodeHistoryEntry(raw any) (*VoteDecision, bool) {
	entry, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}
	proposalID, ok := entry["proposal_id"].(string)
	if !ok || proposalID == "" {
		return nil, false
	}
	voteStr, ok := entry["vote"].(string)
	if !ok {
		return nil, false
	}
	vote, ok := ParseVoteType(voteStr)
	if !ok {
		return nil, false
	}
	d := &VoteDecision{
		ProposalID:     proposalID,
		Vote:           vote,
		Confidence:     toFloat(entry["confidence"]),
		RiskAssessment: RiskMedium,
	}
	if reasoning, ok := entry["reasoning"].(string); ok {
		d.Reasoning = reasoning
	}
	if risk, ok := entry["risk_assessment"].(string); ok {
		if level := RiskLevel(risk); level.Valid() {
			d.RiskAssessment = level
		}
	}
	if strategy, ok := entry["strategy_used"].(string); ok {
		d.StrategyUsed = VotingStrategy(strategy)
	}
	if executed, ok := entry["executed"].(bool); ok {
		d.Executed = executed
	}
	if txHash, ok := entry["transaction_hash"].(string); ok {
		d.TransactionHash = txHash
	}
	return d, true
}

// toFloat coerces the JSON number representations we see in practice.
// Anything unrecognized (including a missing field) decodes as 0.0.
func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0.0
	}
}
