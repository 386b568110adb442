package policyio

import "testing"

func TestGreedyLoaderReturnsUsablePolicy(t *testing.T) {
	policy, err := GreedyLoader{}.Load("unused.path")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if policy == nil {
		t.Fatal("expected a non-nil policy")
	}
}
