package domain

import "testing"

func TestTransactionStatus_CanSettle(t *testing.T) {
	if !StatusPending.CanSettle(StatusCompleted) {
		t.Error("pending → completed must be allowed")
	}
	if !StatusPending.CanSettle(StatusFailed) {
		t.Error("pending → failed must be allowed")
	}
	if StatusCompleted.CanSettle(StatusFailed) {
		t.Error("completed is terminal")
	}
	if StatusFailed.CanSettle(StatusCompleted) {
		t.Error("failed is terminal")
	}
	if StatusPending.CanSettle(StatusPending) {
		t.Error("pending → pending is not a settlement")
	}
}

func TestTransactionStatus_IsTerminal(t *testing.T) {
	if StatusPending.IsTerminal() {
		t.Error("pending must not be terminal")
	}
	if !StatusCompleted.IsTerminal() {
		t.Error("completed must be terminal")
	}
	if !StatusFailed.IsTerminal() {
		t.Error("failed must be terminal")
	}
}

func TestTransactionMetadata_Constructors(t *testing.T) {
	p := PurchaseMetadata("Starter")
	if p.PlanName != "Starter" || p.Method != "" || p.TransactionHash != "" {
		t.Errorf("unexpected purchase metadata: %+v", p)
	}

	w := WithdrawalMetadata("paypal", "user@example.com")
	if w.Method != "paypal" || w.Destination != "user@example.com" || w.PlanName != "" {
		t.Errorf("unexpected withdrawal metadata: %+v", w)
	}

	d := DepositMetadata("0xabc123")
	if d.TransactionHash != "0xabc123" || d.Method != "" {
		t.Errorf("unexpected deposit metadata: %+v", d)
	}
}
