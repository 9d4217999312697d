package persona

import "testing"

func TestAllReturnsIndependentCopy(t *testing.T) {
	advisors := All()
	if len(advisors) != 5 {
		t.Fatalf("len = %d, want 5", len(advisors))
	}
	advisors[0].Name = "mutated"
	if All()[0].Name == "mutated" {
		t.Error("All should return a copy, not the backing slice")
	}
}

func TestById(t *testing.T) {
	advisor := ById("ai-thailand")
	if advisor == nil {
		t.Fatal("ai-thailand should exist")
	}
	if advisor.CountryCode != "TH" {
		t.Errorf("country = %s, want TH", advisor.CountryCode)
	}
	if ById("ai-unknown") != nil {
		t.Error("unknown id should return nil")
	}
}

func TestByEmail(t *testing.T) {
	advisor := ByEmail("ai-france@staync.com")
	if advisor == nil {
		t.Fatal("ai-france@staync.com should exist")
	}
	if advisor.Id != "ai-france" {
		t.Errorf("id = %s, want ai-france", advisor.Id)
	}
	// 同域名但未注册的邮箱不算顾问
	if ByEmail("support@staync.com") != nil {
		t.Error("unregistered email should return nil")
	}
}

func TestDefaultAdvisor(t *testing.T) {
	advisor := ById(DefaultAdvisorId)
	if advisor == nil {
		t.Fatal("default advisor must exist in the registry")
	}
	if advisor.CountryCode != "GLOBAL" {
		t.Errorf("country = %s, want GLOBAL", advisor.CountryCode)
	}
}
