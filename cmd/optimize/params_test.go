package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/blobworld/config"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	extracted := pv.ExtractFromConfig(cfg)
	def := pv.DefaultVector()
	for i, spec := range pv.Specs {
		if math.Abs(extracted[i]-def[i]) > 1e-9 {
			t.Errorf("%s: config has %v, spec default %v", spec.Name, extracted[i], def[i])
		}
	}

	norm := pv.Normalize(def)
	back := pv.Denormalize(norm)
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-9 {
			t.Errorf("param %d: round trip %v, want %v", i, back[i], def[i])
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	values := make([]float64, pv.Dim())
	for i := range values {
		values[i] = 1e6
	}
	pv.ApplyToConfig(cfg, values)

	got := pv.ExtractFromConfig(cfg)
	for i, spec := range pv.Specs {
		if got[i] != spec.Max {
			t.Errorf("%s = %v, want clamped to %v", spec.Name, got[i], spec.Max)
		}
	}
}

func TestParseRates(t *testing.T) {
	rates, err := parseRates("30, 60,120")
	if err != nil {
		t.Fatalf("parseRates: %v", err)
	}
	if len(rates) != 3 || rates[2] != 120 {
		t.Errorf("rates = %v", rates)
	}
	for _, bad := range []string{"", "abc", "60,-1"} {
		if _, err := parseRates(bad); err == nil {
			t.Errorf("parseRates(%q) should fail", bad)
		}
	}
}

func TestComputeFitness(t *testing.T) {
	fe := NewFitnessEvaluator(NewParamVector(), 100, 90, []float64{60}, config.Default())
	if got := fe.computeFitness(90, 0); got != 0 {
		t.Errorf("on-target fitness = %v, want 0", got)
	}
	if fe.computeFitness(45, 0) <= fe.computeFitness(80, 0) {
		t.Error("fitness should worsen further from the target")
	}
	if fe.computeFitness(90, 1) >= fe.computeFitness(90, 0) {
		t.Error("quality should lower fitness")
	}
}
