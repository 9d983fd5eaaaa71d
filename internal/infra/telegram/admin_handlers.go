package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"proservis/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const unauthorizedMsg = "Error: no tienes permisos para ejecutar este comando."

// RegisterAdminHandlers registers the technician management commands.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, adminService *app.AdminService, baseLogger *logrus.Entry) {
	b.Handle("/add_technician", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/add_technician",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if !adminService.IsAdmin(c.Sender().ID) {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedMsg)
		}

		// /add_technician <TelegramID> <FirstName> [LastName]
		args := c.Args()
		if len(args) < 2 || len(args) > 3 {
			handlerLogger.WithField("args_count", len(args)).Warn("Invalid command format")
			return c.Send("Formato inválido. Usa: /add_technician <TelegramID> <Nombre> [Apellido]")
		}

		technicianTelegramID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return c.Send("Error: el Telegram ID debe ser un número.")
		}

		firstName := strings.TrimSpace(args[1])
		if firstName == "" {
			return c.Send("Error: el nombre no puede estar vacío.")
		}

		var lastName string
		if len(args) == 3 {
			lastName = args[2]
		}

		handlerLogger = handlerLogger.WithField("technician_telegram_id", technicianTelegramID)

		newTechnician, err := adminService.AddTechnician(ctx, c.Sender().ID, technicianTelegramID, firstName, lastName)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch {
			case errors.Is(err, app.ErrAdminNotAuthorized):
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send(unauthorizedMsg)
			case errors.Is(err, app.ErrTechnicianAlreadyExists):
				logWithError.Warn("Technician already exists")
				return c.Send(fmt.Sprintf("Error: ya existe un técnico con Telegram ID %d.", technicianTelegramID))
			default:
				logWithError.Error("Failed to add technician")
				return c.Send("Ocurrió un error al registrar el técnico.")
			}
		}

		handlerLogger.WithField("new_technician_id", newTechnician.ID).Info("Technician added successfully")
		return c.Send(fmt.Sprintf("Técnico %s (ID: %d) registrado.", newTechnician.FullName(), newTechnician.TelegramID))
	})

	b.Handle("/remove_technician", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/remove_technician",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if !adminService.IsAdmin(c.Sender().ID) {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedMsg)
		}

		args := c.Args()
		if len(args) != 1 {
			return c.Send("Formato inválido. Usa: /remove_technician <TelegramID>")
		}

		technicianTelegramID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			handlerLogger.WithField("arg", args[0]).Warn("Invalid Telegram ID format")
			return c.Send("Error: el Telegram ID debe ser un número.")
		}
		handlerLogger = handlerLogger.WithField("technician_telegram_id", technicianTelegramID)

		removed, err := adminService.RemoveTechnician(ctx, c.Sender().ID, technicianTelegramID)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch {
			case errors.Is(err, app.ErrAdminNotAuthorized):
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send(unauthorizedMsg)
			case errors.Is(err, app.ErrTechnicianNotFound):
				logWithError.Warn("Technician to remove not found")
				return c.Send(fmt.Sprintf("No se encontró un técnico con Telegram ID %d.", technicianTelegramID))
			case errors.Is(err, app.ErrTechnicianAlreadyInactive):
				logWithError.Warn("Technician already inactive")
				return c.Send(fmt.Sprintf("El técnico %s (ID: %d) ya estaba desactivado.", removed.FullName(), removed.TelegramID))
			default:
				logWithError.Error("Failed to remove technician")
				return c.Send("Ocurrió un error al desactivar el técnico.")
			}
		}

		handlerLogger.WithField("removed_technician_id", removed.ID).Info("Technician deactivated")
		return c.Send(fmt.Sprintf("Técnico %s (ID: %d) desactivado.", removed.FullName(), removed.TelegramID))
	})

	b.Handle("/list_technicians", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/list_technicians",
			"sender_id": c.Sender().ID,
		})
		if !adminService.IsAdmin(c.Sender().ID) {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedMsg)
		}

		listType := "active"
		if args := c.Args(); len(args) > 0 {
			listType = strings.ToLower(args[0])
		}
		if listType != "active" && listType != "all" {
			return c.Send("Argumento inválido. Usa 'active' o 'all', o déjalo vacío para ver los activos.")
		}
		handlerLogger = handlerLogger.WithField("list_type", listType)

		technicians, err := adminService.ListTechnicians(ctx, c.Sender().ID, listType == "all")
		if err != nil {
			if errors.Is(err, app.ErrAdminNotAuthorized) {
				return c.Send(unauthorizedMsg)
			}
			handlerLogger.WithError(err).Error("Failed to list technicians")
			return c.Send("Ocurrió un error al obtener la lista de técnicos.")
		}

		if len(technicians) == 0 {
			if listType == "active" {
				return c.Send("No hay técnicos activos.")
			}
			return c.Send("No hay técnicos registrados.")
		}

		title := "Técnicos activos"
		if listType == "all" {
			title = "Todos los técnicos"
		}

		var response strings.Builder
		response.WriteString(fmt.Sprintf("--- %s ---\n", title))
		for _, t := range technicians {
			status := "Inactivo"
			if t.IsActive {
				status = "Activo"
			}
			response.WriteString(fmt.Sprintf("ID: %d, Telegram ID: %d, %s, %s\n", t.ID, t.TelegramID, t.FullName(), status))
		}
		return c.Send(response.String())
	})
}
