package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deevseek/washcorner/internal/core/events"
	"github.com/deevseek/washcorner/internal/notification"
	"github.com/deevseek/washcorner/pkg/logger"
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Customer notification tools",
}

var (
	notifyStatus   string
	notifyCode     string
	notifyName     string
	notifyServices string
	notifyTotal    int64
	notifyDryRun   bool
)

var notifyTestCmd = &cobra.Command{
	Use:   "test [phone]",
	Short: "Send a sample status message through the configured provider",
	Long: `Publish a sample transaction.status_changed event on an event bus wired
exactly like the server's, so templates, the worker pool and the provider
credentials can be checked without touching the database.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return sendTestNotification(args[0])
	},
}

func sendTestNotification(phone string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	lg := logger.LoggerWrapper()

	templates, err := notification.NewTemplates(cfg.Notification.Templates)
	if err != nil {
		return err
	}

	var services []string
	for _, s := range strings.Split(notifyServices, ",") {
		if s = strings.TrimSpace(s); s != "" {
			services = append(services, s)
		}
	}

	if notifyDryRun {
		msg, err := templates.Render(notification.Message{
			TrackingCode: notifyCode,
			CustomerName: notifyName,
			Services:     services,
			Status:       notifyStatus,
			Total:        notifyTotal,
		})
		if err != nil {
			return err
		}
		fmt.Println(msg)
		return nil
	}

	if cfg.Notification.ProviderURL == "" || cfg.Notification.Token == "" {
		return fmt.Errorf("notification.provider_url and notification.token must be configured")
	}

	sender := notification.NewFonnteSender(cfg.Notification.ProviderURL, cfg.Notification.Token, cfg.Notification.Timeout)
	dispatcher := notification.NewDispatcher(sender, notification.DispatcherConfig{
		MaxWorkers:  1,
		QueueSize:   1,
		SendTimeout: cfg.Notification.Timeout,
	}, lg)

	bus := events.NewEventBus(lg)
	notification.NewEventHandler(templates, dispatcher, lg).RegisterEventHandlers(bus)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Notification.Timeout+5*time.Second)
	defer cancel()

	event := events.NewTransactionStatusChangedEvent(0, notifyCode, notifyStatus, notifyName, phone, services, notifyTotal)
	lg.Info("publishing sample event", "event_id", event.EventID(), "status", notifyStatus, "target", phone)
	if err := bus.PublishSync(ctx, event); err != nil {
		return err
	}
	if err := dispatcher.Shutdown(ctx); err != nil {
		return fmt.Errorf("notification not delivered in time: %w", err)
	}
	lg.Info("sample notification handed to provider; check the notifications_total metric or provider logs for the outcome")
	return nil
}

func init() {
	notifyTestCmd.Flags().StringVar(&notifyStatus, "status", "completed", "transaction status to announce")
	notifyTestCmd.Flags().StringVar(&notifyCode, "code", "WC-TEST01", "tracking code shown in the message")
	notifyTestCmd.Flags().StringVar(&notifyName, "name", "Pelanggan", "customer name")
	notifyTestCmd.Flags().StringVar(&notifyServices, "services", "Cuci Mobil Kecil", "comma separated service names")
	notifyTestCmd.Flags().Int64Var(&notifyTotal, "total", 35000, "transaction total in rupiah")
	notifyTestCmd.Flags().BoolVar(&notifyDryRun, "dry-run", false, "print the rendered message instead of sending it")

	notifyCmd.AddCommand(notifyTestCmd)
}
