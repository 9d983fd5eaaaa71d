// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"proservis/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const statusCheckFailedMsg = "Ocurrió un error al verificar tu estado. Intenta de nuevo más tarde."

func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	adminService *app.AdminService,
	baseLogger *logrus.Entry,
) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		if adminService.IsAdmin(senderID) {
			logCtx.Info("User identified as Admin")
			return c.Send(fmt.Sprintf("Hola, administrador %s. El bot de PROSERVIS está listo. Usa /help para ver los comandos.", c.Sender().FirstName))
		}

		tech, err := adminService.Technician(ctx, senderID)
		switch {
		case err == nil && tech.IsActive:
			logCtx.WithField("technician_id", tech.ID).Info("User identified as active technician")
			return c.Send(fmt.Sprintf("Hola, %s. Te avisaré el día de cada mantenimiento que tengas asignado.", tech.FirstName))
		case err == nil:
			logCtx.WithField("technician_id", tech.ID).Info("User identified as inactive technician")
			return c.Send("Tu cuenta de técnico está inactiva. Contacta al administrador.")
		case !errors.Is(err, app.ErrTechnicianNotFound):
			logCtx.WithError(err).Error("Error checking technician status for /start command")
			return c.Send(statusCheckFailedMsg)
		}

		logCtx.Info("User is unknown")
		return c.Send("Hola. Soy el bot de mantenimientos de PROSERVIS. Si eres técnico, pide al administrador que te registre.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/help").WithField("sender_id", senderID)
		logCtx.Info("Processing /help command")

		if adminService.IsAdmin(senderID) {
			var helpText strings.Builder
			helpText.WriteString("Comandos de administrador:\n\n")
			helpText.WriteString("`/add_technician <TelegramID> <Nombre> [Apellido]`\n - Registrar un técnico.\n\n")
			helpText.WriteString("`/remove_technician <TelegramID>`\n - Desactivar un técnico (deja de recibir recordatorios).\n\n")
			helpText.WriteString("`/list_technicians [active|all]`\n - Listar técnicos. Por defecto solo los activos.\n\n")
			helpText.WriteString(nextUsage + "\n - Calcular la próxima fecha de mantenimiento.\n\n")
			helpText.WriteString("`/help`\n - Mostrar esta ayuda.")
			return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
		}

		tech, err := adminService.Technician(ctx, senderID)
		switch {
		case err == nil && tech.IsActive:
			return c.Send("El día de cada mantenimiento asignado recibirás un recordatorio. Pulsa \"Completado\" al terminar la visita y programaré la siguiente según su frecuencia.\n\n"+
				"`/my_services` - Ver tus mantenimientos programados.\n"+
				nextUsage+" - Calcular una próxima fecha.\n`/help` - Mostrar esta ayuda.",
				&telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
		case err == nil:
			return c.Send("Tu cuenta de técnico está inactiva. Contacta al administrador.")
		case !errors.Is(err, app.ErrTechnicianNotFound):
			logCtx.WithError(err).Error("Error checking technician status for /help command")
			return c.Send(statusCheckFailedMsg)
		}

		return c.Send("No tienes comandos disponibles. Si eres técnico, pide al administrador que te registre.")
	})
}
