package entities

import (
	"testing"
	"time"

	"github.com/volatiletech/null/v8"
)

func TestUser_IsSubscriberAndFee(t *testing.T) {
	now := time.Now()

	subscriber := &User{
		SubscriptionType:    SubscriptionRecurring,
		SubscriptionActive:  true,
		SubscriptionEndDate: null.TimeFrom(now.Add(24 * time.Hour)),
	}
	if !subscriber.IsSubscriber(now) {
		t.Fatal("expected active recurring subscription")
	}
	if got := subscriber.ServiceFeePercent(now); got != SubscriberFeePercent {
		t.Fatalf("expected subscriber fee got %v", got)
	}

	lapsed := &User{
		SubscriptionType:    SubscriptionRecurring,
		SubscriptionActive:  true,
		SubscriptionEndDate: null.TimeFrom(now.Add(-time.Hour)),
	}
	if lapsed.IsSubscriber(now) {
		t.Fatal("expected lapsed subscription to not count")
	}
	if got := lapsed.ServiceFeePercent(now); got != DefaultFeePercent {
		t.Fatalf("expected default fee got %v", got)
	}

	payAsYouGo := &User{SubscriptionType: SubscriptionPayAsYouGo, SubscriptionActive: true}
	if payAsYouGo.IsSubscriber(now) {
		t.Fatal("pay as you go never subscribes")
	}
}

func TestUser_HasRolePermission(t *testing.T) {
	roleless := &User{}
	if roleless.HasRolePermission(PermContractView) {
		t.Fatal("expected no permission without role")
	}

	viewer := &User{Role: &Role{Permissions: []string{PermContractView}}}
	if !viewer.HasRolePermission(PermContractView) {
		t.Fatal("expected granted codename")
	}
	if viewer.HasRolePermission(PermContractDelete) {
		t.Fatal("expected ungranted codename to be false")
	}
}

func TestUser_FullName(t *testing.T) {
	u := &User{FirstName: "Ada", LastName: "Lovelace"}
	if got := u.FullName(); got != "Ada Lovelace" {
		t.Fatalf("expected Ada Lovelace got %s", got)
	}
}

func TestIsValidPermission(t *testing.T) {
	if !IsValidPermission(PermUserView) {
		t.Fatal("expected catalog codename to be valid")
	}
	if IsValidPermission("fly_to_moon") {
		t.Fatal("expected unknown codename to be invalid")
	}
}
