package serial

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func counterValue(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect failed: %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("%s is %T, want Sum[int64]", name, m.Data)
			}
			var total int64
			for _, dp := range sum.DataPoints {
				if port, _ := dp.Attributes.Value(attribute.Key("port")); port.AsString() != "fake0" {
					t.Errorf("%s recorded for port %q", name, port.AsString())
				}
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(context.Background())

	dev := newFakeDevice()
	port := openFake(t, dev, WithMetrics(provider))

	if _, err := port.Write([]byte("hello")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	dev.writeErrAt = 1
	dev.writeErr = errors.New("fault")
	_, _ = port.Write([]byte("again"))

	dev.push("abc")
	nextEvent(t, port)
	dev.fail(errors.New("parity"))
	nextEvent(t, port)
	dev.fail(errHangup)
	nextEvent(t, port)

	tests := []struct {
		name string
		want int64
	}{
		{"serial.write.bytes", 5},
		{"serial.write.errors", 1},
		{"serial.read.bytes", 3},
		{"serial.read.errors", 1},
		{"serial.disconnects", 1},
	}
	for _, tt := range tests {
		if got := counterValue(t, reader, tt.name); got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestMetricsDefaultProvider(t *testing.T) {
	m, err := newPortMetrics(nil, "fake0")
	if err != nil {
		t.Fatalf("newPortMetrics failed: %v", err)
	}
	m.read(1)
	m.wrote(1)
	m.readError()
	m.writeError()
	m.disconnected()
}
