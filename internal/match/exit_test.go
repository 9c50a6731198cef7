package match

import (
	"testing"

	"alpha-tracker/internal/domain"
)

func series(pairs ...float64) []*domain.PricePoint {
	var out []*domain.PricePoint
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, &domain.PricePoint{
			Instrument:  "TEST",
			TimestampMs: int64(pairs[i]),
			Price:       pairs[i+1],
		})
	}
	return out
}

func TestScanExit_TargetHit(t *testing.T) {
	prices := series(1000, 100, 2000, 105, 3000, 111)
	stop := 95.0

	exit, anomalies, ok := ScanExit(domain.SideLong, 100, []float64{110}, &stop, prices, 500, 10000)
	if !ok {
		t.Fatal("expected an exit")
	}
	if anomalies != 0 {
		t.Errorf("expected no anomalies, got %d", anomalies)
	}
	if exit.Kind != domain.ExitKindTarget {
		t.Errorf("expected target exit, got %s", exit.Kind)
	}
	// Exit at the target price, not the bar price.
	if exit.Price != 110 {
		t.Errorf("expected exit at 110, got %f", exit.Price)
	}
	if exit.TimestampMs != 3000 {
		t.Errorf("expected exit at ts 3000, got %d", exit.TimestampMs)
	}
}

func TestScanExit_StopBeforeTarget(t *testing.T) {
	// The stop bar comes first even though a target bar follows.
	prices := series(1000, 94, 2000, 111)
	stop := 95.0

	exit, _, ok := ScanExit(domain.SideLong, 100, []float64{110}, &stop, prices, 500, 10000)
	if !ok {
		t.Fatal("expected an exit")
	}
	if exit.Kind != domain.ExitKindStopLoss {
		t.Errorf("expected stop exit, got %s", exit.Kind)
	}
	if exit.Price != 95 {
		t.Errorf("expected exit at stop price 95, got %f", exit.Price)
	}
}

func TestScanExit_StopWinsTieOnSameBar(t *testing.T) {
	// A single bar satisfying both conditions resolves to the stop.
	prices := series(1000, 100)
	stop := 100.0

	exit, _, ok := ScanExit(domain.SideLong, 100, []float64{100}, &stop, prices, 500, 10000)
	if !ok {
		t.Fatal("expected an exit")
	}
	if exit.Kind != domain.ExitKindStopLoss {
		t.Errorf("tie must resolve to stop, got %s", exit.Kind)
	}
}

func TestScanExit_NearestTargetAmongMultiple(t *testing.T) {
	// One bar jumps through both targets; the nearer one is taken.
	prices := series(1000, 125)

	exit, _, ok := ScanExit(domain.SideLong, 100, []float64{110, 120}, nil, prices, 500, 10000)
	if !ok {
		t.Fatal("expected an exit")
	}
	if exit.Price != 110 {
		t.Errorf("expected nearest target 110, got %f", exit.Price)
	}
}

func TestScanExit_TimeExit(t *testing.T) {
	prices := series(1000, 100, 2000, 104, 9000, 106, 20000, 150)
	stop := 95.0

	exit, _, ok := ScanExit(domain.SideLong, 100, []float64{110}, &stop, prices, 500, 10000)
	if !ok {
		t.Fatal("expected an exit")
	}
	if exit.Kind != domain.ExitKindTimeExit {
		t.Errorf("expected time exit, got %s", exit.Kind)
	}
	// Last price inside the horizon; the 150 bar is out of range.
	if exit.Price != 106 {
		t.Errorf("expected last in-range price 106, got %f", exit.Price)
	}
}

func TestScanExit_ShortSideInverted(t *testing.T) {
	prices := series(1000, 96, 2000, 89)
	stop := 105.0

	exit, _, ok := ScanExit(domain.SideShort, 100, []float64{90}, &stop, prices, 500, 10000)
	if !ok {
		t.Fatal("expected an exit")
	}
	if exit.Kind != domain.ExitKindTarget {
		t.Errorf("expected target exit, got %s", exit.Kind)
	}
	if exit.Price != 90 {
		t.Errorf("expected exit at 90, got %f", exit.Price)
	}

	if r := realizedReturn(domain.SideShort, 100, 90); r != 0.1 {
		t.Errorf("short return should be positive 0.1, got %f", r)
	}
}

func TestScanExit_OutOfOrderSkipped(t *testing.T) {
	prices := []*domain.PricePoint{
		{TimestampMs: 1000, Price: 100},
		{TimestampMs: 3000, Price: 101},
		{TimestampMs: 2000, Price: 50}, // regression in the feed
		{TimestampMs: 4000, Price: 102},
	}
	stop := 95.0

	exit, anomalies, ok := ScanExit(domain.SideLong, 100, nil, &stop, prices, 500, 10000)
	if !ok {
		t.Fatal("expected an exit")
	}
	if anomalies != 1 {
		t.Errorf("expected 1 anomaly, got %d", anomalies)
	}
	// The bad bar must not have triggered the stop.
	if exit.Kind != domain.ExitKindTimeExit || exit.Price != 102 {
		t.Errorf("expected time exit at 102, got %s at %f", exit.Kind, exit.Price)
	}
}

func TestScanExit_NoBarsInRange(t *testing.T) {
	prices := series(50000, 100)

	if _, _, ok := ScanExit(domain.SideLong, 100, nil, nil, prices, 500, 10000); ok {
		t.Fatal("expected no exit when all bars are past the horizon")
	}
}

func TestScanExit_Deterministic(t *testing.T) {
	prices := series(1000, 100, 2000, 94, 3000, 111)
	stop := 95.0

	first, _, _ := ScanExit(domain.SideLong, 100, []float64{110}, &stop, prices, 500, 10000)
	for i := 0; i < 10; i++ {
		again, _, _ := ScanExit(domain.SideLong, 100, []float64{110}, &stop, prices, 500, 10000)
		if again != first {
			t.Fatalf("exit not deterministic: %+v vs %+v", first, again)
		}
	}
}
