package module

import (
	"context"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"powerisland/internal/upower"
)

const listTimeout = 5 * time.Second

// ListDevices enumerates the power devices on the bus and renders them as a
// table. It opens its own bus connection so the command works even while the
// producer generation is restarting.
func ListDevices() (string, error) {
	client, err := upower.NewSystem()
	if err != nil {
		return "", fmt.Errorf("failed to connect to the device bus: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
	defer cancel()

	devices, err := client.EnumerateDevices(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to enumerate devices: %w", err)
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Device", "Model", "Serial", "Percentage"})
	for _, dev := range devices {
		info := client.DeviceInfo(ctx, dev)
		t.AppendRow(table.Row{info.NativePath, info.Model, info.Serial, fmt.Sprintf("%.0f%%", info.Percentage)})
	}
	return t.Render(), nil
}
