package offer

import (
	"testing"
	"time"
)

func TestStatusTransitions(t *testing.T) {
	terminal := []Status{StatusCompleted, StatusRejected, StatusExpired, StatusCancelled}

	for _, next := range terminal {
		if !StatusPending.CanTransitionTo(next) {
			t.Errorf("pending -> %s: expected allowed", next)
		}
	}
	if StatusPending.CanTransitionTo(StatusPending) {
		t.Error("pending -> pending: expected rejected")
	}

	for _, from := range terminal {
		if !from.Terminal() {
			t.Errorf("%s: expected terminal", from)
		}
		for _, next := range append(terminal, StatusPending) {
			if from.CanTransitionTo(next) {
				t.Errorf("%s -> %s: expected rejected", from, next)
			}
		}
	}
	if StatusPending.Terminal() {
		t.Error("pending: expected non-terminal")
	}
}

func TestOfferValidate(t *testing.T) {
	base := Offer{
		ID:           "of-1",
		PlayerID:     "pl-1",
		LeagueID:     "lg-1",
		SellerUserID: "u-seller",
		BuyerUserID:  "u-buyer",
		Price:        7,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid offer: unexpected error %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Offer)
	}{
		{"missing id", func(o *Offer) { o.ID = "" }},
		{"missing player", func(o *Offer) { o.PlayerID = "" }},
		{"missing league", func(o *Offer) { o.LeagueID = "" }},
		{"missing seller", func(o *Offer) { o.SellerUserID = "" }},
		{"missing buyer", func(o *Offer) { o.BuyerUserID = "" }},
		{"self trade", func(o *Offer) { o.BuyerUserID = o.SellerUserID }},
		{"zero price", func(o *Offer) { o.Price = 0 }},
		{"negative price", func(o *Offer) { o.Price = -3 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := base
			tc.mutate(&o)
			if err := o.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestOfferExpiredBy(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	o := Offer{CreatedAt: created, ExpiresAt: created.Add(DefaultTTL)}

	if o.ExpiredBy(created.Add(47 * time.Hour)) {
		t.Error("offer expired before its deadline")
	}
	if o.ExpiredBy(o.ExpiresAt) {
		t.Error("offer expired exactly at its deadline")
	}
	if !o.ExpiredBy(o.ExpiresAt.Add(time.Second)) {
		t.Error("offer not expired after its deadline")
	}
}
