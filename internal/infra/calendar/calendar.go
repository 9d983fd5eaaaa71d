// Package calendar renders the projected maintenance visits of a service as
// an iCalendar feed clients can subscribe to.
package calendar

import (
	"errors"
	"fmt"
	"io"
	"time"

	"proservis/internal/domain/maintenance"
	"proservis/internal/domain/recurrence"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

const productID = "-//PROSERVIS//Maintenance Calendar//ES"

// DefaultHorizon is how many visits a feed projects by default.
const DefaultHorizon = 12

var ErrNoOccurrences = errors.New("service has no upcoming maintenance")

// eventNamespace seeds the name-based UIDs, so regenerating a feed keeps the
// same UID for the same visit.
var eventNamespace = uuid.MustParse("6f1c9a52-3d0e-4c8b-9a57-2b7f4e1d8c30")

// EventUID returns the stable UID of a service's visit on date.
func EventUID(serviceID int64, date string) string {
	return uuid.NewSHA1(eventNamespace, []byte(fmt.Sprintf("service/%d/%s", serviceID, date))).String()
}

// Occurrences lists up to horizon upcoming visit dates of record. A scheduled
// service starts from its own due date; a completed one from its next
// maintenance date. Later visits follow the service's recurrence.
func Occurrences(record *maintenance.ServiceRecord, horizon int) []string {
	if horizon <= 0 {
		return nil
	}

	var anchor time.Time
	switch {
	case record.Status == maintenance.StatusScheduled && record.ScheduledFor.Valid:
		anchor = record.ScheduledFor.Time
	case record.Status == maintenance.StatusCompleted && record.NextMaintenance.Valid:
		anchor = record.NextMaintenance.Time
	default:
		return nil
	}

	dates := []string{recurrence.FormatDate(anchor)}
	if record.IsRecurring() {
		dates = append(dates, recurrence.Project(anchor, record.Frequency, record.Policy, horizon-1)...)
	}
	return dates
}

// Build assembles the feed for record. It returns ErrNoOccurrences when the
// service has nothing upcoming.
func Build(record *maintenance.ServiceRecord, horizon int, now time.Time) (*ical.Calendar, error) {
	dates := Occurrences(record, horizon)
	if len(dates) == 0 {
		return nil, ErrNoOccurrences
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropName, fmt.Sprintf("Mantenimiento servicio #%d", record.ID))

	for _, date := range dates {
		day, err := recurrence.ParseDate(date)
		if err != nil {
			return nil, err
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, EventUID(record.ID, date))
		event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
		event.Props.SetDate(ical.PropDateTimeStart, day)
		event.Props.SetDate(ical.PropDateTimeEnd, day.AddDate(0, 0, 1))
		event.Props.SetText(ical.PropSummary, fmt.Sprintf("Mantenimiento: cliente #%d, equipo #%d", record.ClientID, record.EquipmentID))
		if record.Description != "" {
			event.Props.SetText(ical.PropDescription, record.Description)
		}
		cal.Children = append(cal.Children, event.Component)
	}

	return cal, nil
}

// Write encodes the feed for record to w.
func Write(w io.Writer, record *maintenance.ServiceRecord, horizon int, now time.Time) error {
	cal, err := Build(record, horizon, now)
	if err != nil {
		return err
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode calendar: %w", err)
	}
	return nil
}
