// Package rpc serves the planner over gRPC as unlockpath.v1.Planner.
//
// Payloads travel as google.protobuf.Struct values shaped like the JSON below,
// so no generated code is needed on either side:
//
//	Plan:         {"requests":[{"capability":"Thrusters","quality":5,"pinned":true}],"allPaths":true}
//	           -> {"paths":[{"steps":[{"provider":"...","satisfies":[...]}],"bonus":[...]}],"stats":{...}}
//	Capabilities: {} -> {"version":"3.4.0","capabilities":[...],"providers":[...]}
package rpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	unlockv1alpha1 "github.com/bayleafwalker/unlockpath/api/v1alpha1"
)

// PlanRequest is the Plan input.
type PlanRequest struct {
	Requests []unlockv1alpha1.CapabilityRequest `json:"requests"`
	// AllPaths overrides the server default when set.
	AllPaths *bool `json:"allPaths,omitempty"`
}

// PlanResponse is the Plan output.
type PlanResponse struct {
	Paths []unlockv1alpha1.UnlockPathStatus `json:"paths"`
	Stats PlanStats                         `json:"stats"`
}

// PlanStats mirrors resolver.Stats. Combinations is a decimal string because
// it can exceed every fixed-width integer.
type PlanStats struct {
	Combinations string `json:"combinations"`
	Evaluated    uint64 `json:"evaluated"`
	Pruned       uint64 `json:"pruned"`
	Improvements uint64 `json:"improvements"`
}

// CapabilitiesResponse describes the served catalog.
type CapabilitiesResponse struct {
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
	Providers    []string `json:"providers"`
}

func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return out, nil
}

func fromStruct(s *structpb.Struct, v any) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	data, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
