package components

import (
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionPanel_TrackingLabel(t *testing.T) {
	test.NewTempApp(t)
	p := NewActionPanel()

	assert.Equal(t, "Start Location Tracking", p.TrackingLabel())
	p.SetTrackingActive(true)
	assert.Equal(t, "Stop Location Tracking", p.TrackingLabel())
	p.SetTrackingActive(false)
	assert.Equal(t, "Start Location Tracking", p.TrackingLabel())
}

func TestActionPanel_StopAlarmEnabledOnlyInPanic(t *testing.T) {
	test.NewTempApp(t)
	p := NewActionPanel()

	assert.True(t, p.stopAlarmButton.Disabled())
	p.SetPanicActive(true)
	assert.False(t, p.stopAlarmButton.Disabled())
	p.SetPanicActive(false)
	assert.True(t, p.stopAlarmButton.Disabled())
}

func TestActionPanel_TapDispatchesHandler(t *testing.T) {
	test.NewTempApp(t)
	p := NewActionPanel()

	fired := make(chan string, 2)
	p.SetSOSHandler(func() { fired <- "sos" })
	p.SetLogsHandler(func() { fired <- "logs" })

	test.Tap(p.sosButton)
	test.Tap(p.logsButton)
	test.Tap(p.contactsButton) // no handler set

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case name := <-fired:
			got[name] = true
		case <-time.After(time.Second):
			require.FailNow(t, "handler not called")
		}
	}
	assert.Equal(t, map[string]bool{"sos": true, "logs": true}, got)
}

func TestStatusBar(t *testing.T) {
	test.NewTempApp(t)
	sb := NewStatusBar()

	assert.Equal(t, "Ready", sb.GetStatus())
	sb.SetStatus("Emergency logged")
	sb.SetTracking(true)
	sb.SetAlarm(true)
	assert.Equal(t, "Emergency logged", sb.GetStatus())
	assert.Equal(t, "Tracking: on", sb.trackingLabel.Text)
	assert.Equal(t, "Alarm: on", sb.alarmLabel.Text)

	sb.Reset()
	assert.Equal(t, "Ready", sb.GetStatus())
	assert.Equal(t, "Tracking: off", sb.trackingLabel.Text)
	assert.Equal(t, "Alarm: off", sb.alarmLabel.Text)
}
