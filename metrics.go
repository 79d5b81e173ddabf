package serial

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/allbin/go-serialport"

type portMetrics struct {
	bytesRead    metric.Int64Counter
	bytesWritten metric.Int64Counter
	readErrors   metric.Int64Counter
	writeErrors  metric.Int64Counter
	disconnects  metric.Int64Counter
	attrs        metric.MeasurementOption
}

func newPortMetrics(provider metric.MeterProvider, port string) (*portMetrics, error) {
	if provider == nil {
		provider = noop.NewMeterProvider()
	}
	meter := provider.Meter(meterName)

	m := &portMetrics{
		attrs: metric.WithAttributes(attribute.String("port", port)),
	}

	var err error
	m.bytesRead, err = meter.Int64Counter(
		"serial.read.bytes",
		metric.WithDescription("Bytes delivered by the read loop"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	m.bytesWritten, err = meter.Int64Counter(
		"serial.write.bytes",
		metric.WithDescription("Bytes fully written to the device"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	m.readErrors, err = meter.Int64Counter(
		"serial.read.errors",
		metric.WithDescription("Error events emitted by the read loop"),
		metric.WithUnit("{errors}"),
	)
	if err != nil {
		return nil, err
	}

	m.writeErrors, err = meter.Int64Counter(
		"serial.write.errors",
		metric.WithDescription("Failed write requests"),
		metric.WithUnit("{errors}"),
	)
	if err != nil {
		return nil, err
	}

	m.disconnects, err = meter.Int64Counter(
		"serial.disconnects",
		metric.WithDescription("Read loops terminated by a disconnect"),
		metric.WithUnit("{disconnects}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *portMetrics) read(n int) {
	m.bytesRead.Add(context.Background(), int64(n), m.attrs)
}

func (m *portMetrics) wrote(n int) {
	m.bytesWritten.Add(context.Background(), int64(n), m.attrs)
}

func (m *portMetrics) readError() {
	m.readErrors.Add(context.Background(), 1, m.attrs)
}

func (m *portMetrics) writeError() {
	m.writeErrors.Add(context.Background(), 1, m.attrs)
}

func (m *portMetrics) disconnected() {
	m.disconnects.Add(context.Background(), 1, m.attrs)
}
