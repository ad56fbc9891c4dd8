package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"dermalink/mobile/internal/api"
	"dermalink/mobile/internal/chat"
	"dermalink/mobile/internal/jobs"
	"dermalink/mobile/internal/models"
	"dermalink/mobile/internal/session"
)

func (a *app) chatCmd() *cobra.Command {
	var send string
	var imagePaths []string
	var listen bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Read and send messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, token, err := a.requireRole(cmd.Context(), "")
			if err != nil {
				return err
			}

			if send != "" || len(imagePaths) > 0 {
				var images []api.Attachment
				var closers []*os.File
				defer func() {
					for _, f := range closers {
						f.Close()
					}
				}()
				for _, path := range imagePaths {
					f, err := os.Open(path)
					if err != nil {
						return err
					}
					closers = append(closers, f)
					images = append(images, api.Attachment{Name: filepath.Base(path), Reader: f})
				}

				if _, err := a.api.SendMessage(cmd.Context(), token, user.ID, send, images); err != nil {
					return err
				}
				fmt.Println("Sent.")
				return nil
			}

			messages, err := a.api.Messages(cmd.Context(), token)
			if err != nil {
				return err
			}
			for _, m := range messages {
				printMessage(m, user.ID)
			}

			if !listen {
				return nil
			}

			// Live tail over the WebSocket feed until interrupted.
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			stream := chat.New(a.cfg.Chat, token, a.log)
			go func() {
				for m := range stream.Messages() {
					printMessage(m, user.ID)
				}
			}()
			return stream.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&send, "send", "", "message text to send")
	cmd.Flags().StringSliceVar(&imagePaths, "image", nil, "attach image file(s)")
	cmd.Flags().BoolVar(&listen, "listen", false, "stay connected and print incoming messages")
	return cmd
}

// watchCmd keeps the background cadence running in the foreground: periodic
// session re-verification plus today's appointment refresh.
func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep the session verified and follow today's appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, token, err := a.requireRole(cmd.Context(), "")
			if err != nil {
				return err
			}

			fetch := func(ctx context.Context) ([]models.Consultation, error) {
				return a.api.ConsultationsToday(ctx, token, user.ID)
			}
			onState := func(vs session.ViewState) {
				if vs.Kind != session.Authenticated {
					fmt.Printf("Session state changed: %s\n", vs.Kind)
				}
			}
			onToday := func(list []models.Consultation) {
				fmt.Printf("Today: %d consultation(s)\n", len(list))
				printConsultations(list)
			}

			poller := jobs.NewPoller(a.cfg.Poll, a.resolver, fetch, onState, onToday, a.log)
			if err := poller.Start(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			poller.Stop()
			return nil
		},
	}
}

func printMessage(m models.Message, selfID string) {
	who := m.Sender
	if who == "" {
		who = m.SenderID
	}
	if m.SenderID == selfID {
		who = "me"
	}
	line := fmt.Sprintf("[%s] %s: %s", m.CreatedAt.Format("15:04"), who, m.Body)
	if len(m.ImageURLs) > 0 {
		line += fmt.Sprintf(" (+%d image)", len(m.ImageURLs))
	}
	fmt.Println(line)
}
