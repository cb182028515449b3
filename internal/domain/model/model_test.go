package model

import "testing"

func TestCanTransitionForward(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusCreated, OrderStatusPending, true},
		{OrderStatusCreated, OrderStatusCheckedOut, true},
		{OrderStatusConsentGiven, OrderStatusCheckedOut, true},
		{OrderStatusCheckedOut, OrderStatusProcessing, true},
		{OrderStatusProcessing, OrderStatusProcessed, true},
		{OrderStatusCheckedOut, OrderStatusConsentGiven, false},
		{OrderStatusPending, OrderStatusCreated, false},
		{OrderStatusPending, OrderStatusPending, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestCanTransitionExceptionalFromAnyNonTerminal(t *testing.T) {
	for _, from := range []OrderStatus{OrderStatusCreated, OrderStatusPending, OrderStatusConsentGiven, OrderStatusCheckedOut, OrderStatusProcessing} {
		for _, to := range []OrderStatus{OrderStatusFailed, OrderStatusRejected, OrderStatusCancelled, OrderStatusLimitReached} {
			if !from.CanTransition(to) {
				t.Fatalf("expected %s -> %s to be allowed", from, to)
			}
		}
	}
}

func TestTerminalStatusesNeverMove(t *testing.T) {
	terminals := []OrderStatus{OrderStatusProcessed, OrderStatusRejected, OrderStatusCancelled, OrderStatusFailed, OrderStatusLimitReached}
	targets := []OrderStatus{OrderStatusCreated, OrderStatusPending, OrderStatusCheckedOut, OrderStatusProcessing, OrderStatusProcessed, OrderStatusFailed}
	for _, from := range terminals {
		for _, to := range targets {
			if from.CanTransition(to) {
				t.Fatalf("terminal %s must not transition to %s", from, to)
			}
		}
	}
}

func TestKindForSubType(t *testing.T) {
	cases := map[SubType]TransactionKind{
		SubTypeLumpsum:    KindOneTime,
		SubTypeSIP:        KindRecurring,
		SubTypeRedemption: KindRedemption,
		SubTypeSwitchIn:   KindSwitch,
		SubTypeSwitchOut:  KindSwitch,
		SubTypeSTPIn:      KindSTP,
		SubTypeSTPOut:     KindSTP,
		SubTypeSWP:        KindSWP,
	}
	for sub, want := range cases {
		if got := KindForSubType(sub); got != want {
			t.Fatalf("%s: expected %s, got %s", sub, want, got)
		}
	}
}

func TestStagingIdentity(t *testing.T) {
	o := &Order{CustomerID: "68b1a7f2c9e77a0001d40f42", Kind: KindSwitch}
	if o.StagingIdentity() != "68b1a7f2c9e77a0001d40f42:SWITCH" {
		t.Fatalf("unexpected staging identity %s", o.StagingIdentity())
	}
}
