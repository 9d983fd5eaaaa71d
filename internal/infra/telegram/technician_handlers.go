package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"proservis/internal/app"
	"proservis/internal/domain/recurrence"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterTechnicianHandlers registers /next, /my_services and the handler of
// the "Completado" reminder button.
func RegisterTechnicianHandlers(ctx context.Context, b *telebot.Bot, maintenanceService app.MaintenanceService, baseLogger *logrus.Entry) {
	b.Handle("/next", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/next",
			"sender_id": c.Sender().ID,
		})

		req, err := ParsePreviewArgs(c.Args())
		if err != nil {
			handlerLogger.WithError(err).Debug("Invalid /next arguments")
			return c.Send(fmt.Sprintf("No pude leer el comando (%v).\nUso: %s", err, nextUsage),
				&telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
		}

		next := maintenanceService.PreviewNextDate(req.Reference, req.Frequency, req.Policy)
		if date, ok := next.Get(); ok {
			return c.Send(fmt.Sprintf("Próximo mantenimiento: %s", date))
		}
		return c.Send("Sin próximo mantenimiento para esa frecuencia.")
	})

	b.Handle("/my_services", func(c telebot.Context) error {
		senderID := c.Sender().ID
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/my_services",
			"sender_id": senderID,
		})

		services, err := maintenanceService.UpcomingForTechnician(ctx, senderID)
		if err != nil {
			if errors.Is(err, app.ErrTechnicianNotFound) {
				return c.Send("No estás registrado como técnico.")
			}
			handlerLogger.WithError(err).Error("Failed to list technician services")
			return c.Send("Ocurrió un error al obtener tus servicios.")
		}
		if len(services) == 0 {
			return c.Send("No tienes mantenimientos programados.")
		}

		var response strings.Builder
		response.WriteString("--- Mantenimientos programados ---\n")
		for _, record := range services {
			due := "sin fecha"
			if record.ScheduledFor.Valid {
				due = recurrence.FormatDate(record.ScheduledFor.Time)
			}
			response.WriteString(fmt.Sprintf("%s: servicio #%d, cliente #%d, equipo #%d\n", due, record.ID, record.ClientID, record.EquipmentID))
		}
		return c.Send(response.String())
	})

	b.Handle(&telebot.Btn{Unique: app.CallbackServiceDone}, func(c telebot.Context) error {
		senderID := c.Sender().ID
		data := c.Callback().Data
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   app.CallbackServiceDone,
			"sender_id": senderID,
		})

		serviceID, err := strconv.ParseInt(data, 10, 64)
		if err != nil {
			c.Bot().OnError(fmt.Errorf("invalid service ID %q in callback: %w", data, err), c)
			return c.Respond(&telebot.CallbackResponse{Text: "Servicio inválido."})
		}
		handlerLogger = handlerLogger.WithField("service_id", serviceID)

		result, err := maintenanceService.CompleteFromReminder(ctx, serviceID, senderID, recurrence.DateOnly(time.Now()))
		if err != nil {
			switch {
			case errors.Is(err, app.ErrServiceAlreadyCompleted):
				return c.Respond(&telebot.CallbackResponse{Text: "Este servicio ya estaba completado."})
			case errors.Is(err, app.ErrServiceCancelled):
				return c.Respond(&telebot.CallbackResponse{Text: "Este servicio fue cancelado."})
			case errors.Is(err, app.ErrNotAssignedTechnician):
				handlerLogger.Warn("Completion attempt by a technician not assigned to the service")
				return c.Respond(&telebot.CallbackResponse{Text: "Este servicio no está asignado a ti."})
			case errors.Is(err, app.ErrServiceNotFound):
				return c.Respond(&telebot.CallbackResponse{Text: "Servicio no encontrado."})
			default:
				c.Bot().OnError(fmt.Errorf("error completing service %d from reminder: %w", serviceID, err), c)
				return c.Respond(&telebot.CallbackResponse{Text: "Ocurrió un error."})
			}
		}

		handlerLogger.Info("Service completed from reminder")

		confirmation := "Servicio completado. Sin próximo mantenimiento programado."
		if date, ok := result.NextDate.Get(); ok {
			confirmation = fmt.Sprintf("Servicio completado. Próximo mantenimiento: %s.", date)
		}
		if msg := c.Message(); msg != nil {
			if err := c.Edit(msg.Text + "\n\n" + confirmation); err != nil {
				handlerLogger.WithError(err).Warn("Failed to update reminder message")
			}
		}
		return c.Respond(&telebot.CallbackResponse{Text: "¡Listo!"})
	})
}
