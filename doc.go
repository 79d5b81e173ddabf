// Package serial provides asynchronous serial port communication for Linux
// and Windows.
//
// A Port is opened with a link configuration. Incoming bytes are read by a
// background loop and delivered as events; writes either deliver every byte
// or fail.
//
// # Basic Usage
//
// Open a serial port with the default configuration (9600 8N1, exclusive):
//
//	port, err := serial.Open("/dev/ttyUSB0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	if _, err := port.Write([]byte("ping")); err != nil {
//	    log.Fatal(err)
//	}
//
//	for ev := range port.Events() {
//	    switch ev.Kind {
//	    case serial.EventData:
//	        fmt.Printf("%q\n", ev.Data)
//	    case serial.EventError:
//	        log.Println(ev.Err)
//	    case serial.EventDisconnected:
//	        log.Println("device removed")
//	    }
//	}
//
// The event channel is closed after a Disconnected event and when the port
// is closed. Close may be called while a read is blocked; once it returns no
// further events are delivered.
//
// # Configuration Options
//
//	port, err := serial.Open("COM3",
//	    serial.WithBaudRate(115200),
//	    serial.WithParity(serial.ParityEven),
//	    serial.WithStopBits(serial.StopBitsTwo),
//	    serial.WithHangupOnClose(true),
//	    serial.WithLogger(slog.Default()),
//	)
//
// Update changes the baud rate of an open port and Config reads the link
// parameters back from the device.
//
// # Control Lines
//
//	err = port.SetSignals(serial.Signals{DTR: true, RTS: false, ReportCTS: true})
//	status, err := port.GetSignals()
//	fmt.Printf("CTS=%v DSR=%v DCD=%v\n", status.CTS, status.DSR, status.DCD)
//
// # Port Discovery
//
// ListPorts merges a detailed device inventory with a scan of the device
// namespace:
//
//	for _, p := range serial.ListPorts() {
//	    fmt.Println(p.Name, p.Manufacturer, p.DeviceID)
//	}
//
// WatchPorts delivers a fresh list whenever devices are plugged or removed.
//
// # Error Handling
//
// Failed operations return a *PortError whose message names the operation
// and the OS failure. Use errors.Is with the kind sentinels:
//
//	if errors.Is(err, serial.ErrOpen) {
//	    // the device could not be opened or configured
//	}
//
// # Metrics
//
// WithMetrics records bytes, read errors and disconnects on an OpenTelemetry
// MeterProvider.
package serial
