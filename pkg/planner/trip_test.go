package planner

import "testing"

func TestSetOriginAndWaypointsRejectsEmpty(t *testing.T) {
	_, err := SetOriginAndWaypoints(1, nil)
	if err != ErrNoWaypoints {
		t.Fatalf("err = %v, want ErrNoWaypoints", err)
	}
}

func TestTripSingleLeg(t *testing.T) {
	trip, err := SetOriginAndWaypoints(1, []int64{2})
	if err != nil {
		t.Fatalf("SetOriginAndWaypoints: %v", err)
	}
	if trip.Done() {
		t.Fatal("trip should not be done before its first Reset")
	}
	origin, destination, ok := trip.Reset()
	if !ok || origin != 1 || destination != 2 {
		t.Fatalf("Reset = (%d, %d, %v), want (1, 2, true)", origin, destination, ok)
	}
	if !trip.Done() {
		t.Fatal("trip should be done after its only leg")
	}
	if _, _, ok := trip.Reset(); ok {
		t.Fatal("Reset after completion should report ok=false")
	}
}

func TestTripMultiLeg(t *testing.T) {
	trip, err := SetOriginAndWaypoints(1, []int64{2, 3})
	if err != nil {
		t.Fatalf("SetOriginAndWaypoints: %v", err)
	}

	o1, d1, ok := trip.Reset()
	if !ok || o1 != 1 || d1 != 2 {
		t.Fatalf("leg 1 = (%d, %d, %v), want (1, 2, true)", o1, d1, ok)
	}
	if trip.Done() {
		t.Fatal("trip should have a second leg remaining")
	}

	o2, d2, ok := trip.Reset()
	if !ok || o2 != 2 || d2 != 3 {
		t.Fatalf("leg 2 = (%d, %d, %v), want (2, 3, true)", o2, d2, ok)
	}
	if !trip.Done() {
		t.Fatal("trip should be done after its final leg")
	}
}
