package app

import (
	"fmt"
	"image/color"

	"resource-dashboard-go/internal/display"
	"resource-dashboard-go/internal/sched"
	"resource-dashboard-go/internal/source"
)

// Pie chart slice colors: soft red for used, soft blue for available.
var (
	memUsedColor      = color.RGBA{0xFF, 0x99, 0x99, 0xFF}
	memAvailableColor = color.RGBA{0x66, 0xB3, 0xFF, 0xFF}
)

// updateVideo samples one camera frame, transforms it, and hands the
// bitmap to the surface. A transient failure renders "Error" and keeps
// the task alive; a permanently closed device stops the task for good.
func (c *Controller) updateVideo() sched.Outcome {
	st := c.stats[taskVideo]

	smp, err := c.cameraSrc.Sample()
	if err != nil {
		st.failed++
		if c.deps.Camera.Closed() {
			c.log.Warn().Err(err).Msg("camera closed, stopping video updates")
			c.deps.Surface.SetLabelText(display.NameCamera, "Disconnected")
			return sched.Stop
		}
		c.log.Debug().Err(err).Msg("frame read failed")
		c.deps.Surface.SetLabelText(display.NameCamera, "Error")
		return sched.Continue
	}

	img, err := c.transform.Render(smp.(source.FrameSample),
		c.cfg.DisplayWidth, c.cfg.DisplayHeight)
	if err != nil {
		st.failed++
		c.log.Warn().Err(err).Msg("frame transform failed")
		c.deps.Surface.SetLabelText(display.NameCamera, "Error")
		return sched.Continue
	}

	c.deps.Surface.SetImage(img)
	c.deps.Surface.SetLabelText(display.NameCamera, "Live")
	st.fired++
	return sched.Continue
}

// updateMemory refreshes the memory pie chart. On read failure the chart
// legend shows the degraded state; next firing retries.
func (c *Controller) updateMemory() sched.Outcome {
	st := c.stats[taskMemory]

	smp, err := c.deps.Memory.Sample()
	if err != nil {
		st.failed++
		c.log.Warn().Err(err).Msg("memory read failed")
		c.deps.Surface.SetLabelText(display.NameMemory, "Memory Usage: Error")
		return sched.Continue
	}

	ms := smp.(source.MemorySample)
	c.deps.Surface.SetChartData([]display.ChartSlice{
		{
			Label: fmt.Sprintf("Used %.1f GB", ms.UsedGB()),
			Value: ms.UsedGB(),
			Color: memUsedColor,
		},
		{
			Label: fmt.Sprintf("Available %.1f GB", ms.AvailableGB()),
			Value: ms.AvailableGB(),
			Color: memAvailableColor,
		},
	})
	st.fired++
	return sched.Continue
}

// updateCPU refreshes the CPU gauge and its tier color.
func (c *Controller) updateCPU() sched.Outcome {
	st := c.stats[taskCPU]

	smp, err := c.deps.CPU.Sample()
	if err != nil {
		st.failed++
		c.log.Warn().Err(err).Msg("cpu read failed")
		c.deps.Surface.SetGaugeValue(display.NameCPU, 0, display.TierNormal)
		c.deps.Surface.SetLabelText(display.NameCPU, "CPU Load: Error")
		return sched.Continue
	}

	cs := smp.(source.CPUSample)
	tier := display.TierFor(cs.Percent)
	c.deps.Surface.SetGaugeValue(display.NameCPU, cs.Percent, tier)
	if cs.FrequencyMHz > 0 {
		c.deps.Surface.SetLabelText(display.NameCPU,
			fmt.Sprintf("CPU Load: %.1f%% (%.2f GHz)", cs.Percent, cs.FrequencyMHz/1000))
	} else {
		c.deps.Surface.SetLabelText(display.NameCPU,
			fmt.Sprintf("CPU Load: %.1f%%", cs.Percent))
	}
	st.fired++
	return sched.Continue
}

// updateGPU refreshes the GPU gauge. A host with no GPU is a normal
// steady state ("Not detected"), distinct from a read failure.
func (c *Controller) updateGPU() sched.Outcome {
	st := c.stats[taskGPU]

	smp, err := c.deps.GPU.Sample()
	if err != nil {
		st.failed++
		c.log.Warn().Err(err).Msg("gpu read failed")
		c.deps.Surface.SetGaugeValue(display.NameGPU, 0, display.TierNormal)
		c.deps.Surface.SetLabelText(display.NameGPU, "GPU Load: Error")
		return sched.Continue
	}

	gs := smp.(source.GPUSample)
	if gs.Absent {
		c.deps.Surface.SetGaugeValue(display.NameGPU, 0, display.TierNormal)
		c.deps.Surface.SetLabelText(display.NameGPU, "GPU: Not detected")
		st.fired++
		return sched.Continue
	}

	tier := display.TierFor(gs.Percent)
	c.deps.Surface.SetGaugeValue(display.NameGPU, gs.Percent, tier)
	c.deps.Surface.SetLabelText(display.NameGPU,
		fmt.Sprintf("GPU Load: %.0f%% (%.0f MB, %.0f°C)",
			gs.Percent, gs.UsedMemoryMB, gs.TemperatureC))
	st.fired++
	return sched.Continue
}

// logHealthSummary periodically logs per-task firing counters. Read from
// the loop goroutine, same as the writers.
func (c *Controller) logHealthSummary() sched.Outcome {
	ev := c.log.Info()
	for name, st := range c.stats {
		ev = ev.Uint64(name+"_ok", st.fired).Uint64(name+"_failed", st.failed)
	}
	ev.Msg("health summary")
	return sched.Continue
}
