package printer

// ServiceSpec pairs a GATT service UUID with the writable characteristic
// carrying printer data for one vendor family.
type ServiceSpec struct {
	Service   string
	WriteChar string
}

// knownPrinterServices is the allow-list of vendor UUID sets seen on the
// thermal printers this agent supports. Connect tries each in turn; the
// first set the peripheral actually exposes wins.
var knownPrinterServices = []ServiceSpec{
	// Generic ESC/POS printers exposing the 18F0 serial service.
	{
		Service:   "000018f0-0000-1000-8000-00805f9b34fb",
		WriteChar: "00002af1-0000-1000-8000-00805f9b34fb",
	},
	// Goojprt / Peripage family.
	{
		Service:   "e7810a71-73ae-499d-8c15-faa9aef0c3f2",
		WriteChar: "bef8d6c9-9c21-4c9e-b632-bd58c1009f9f",
	},
	// FF00 vendor service used by several budget 58mm printers.
	{
		Service:   "0000ff00-0000-1000-8000-00805f9b34fb",
		WriteChar: "0000ff02-0000-1000-8000-00805f9b34fb",
	},
}
