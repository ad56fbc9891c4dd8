package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dermalink/mobile/internal/models"
)

func (a *app) requestsCmd() *cobra.Command {
	var status, approveID, rejectID, reason string

	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Review consultation requests (doctors only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, token, err := a.requireRole(cmd.Context(), models.RoleDoctor)
			if err != nil {
				return err
			}

			if approveID != "" {
				if err := a.api.UpdateConsultation(cmd.Context(), token, approveID, models.ConsultationApproved, ""); err != nil {
					return err
				}
				fmt.Println("Request approved.")
				return nil
			}
			if rejectID != "" {
				if reason == "" {
					return fmt.Errorf("--reason is required when rejecting")
				}
				if err := a.api.UpdateConsultation(cmd.Context(), token, rejectID, models.ConsultationRejected, reason); err != nil {
					return err
				}
				fmt.Println("Request rejected.")
				return nil
			}

			list, err := a.api.DoctorAppointments(cmd.Context(), token, user.ID)
			if err != nil {
				return err
			}

			filter := models.ConsultationPending
			if status != "" {
				filter = models.ConsultationStatus(status)
			}
			printConsultations(models.FilterByStatus(list, filter))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter: pending (default), approved or rejected")
	cmd.Flags().StringVar(&approveID, "approve", "", "approve the given request id")
	cmd.Flags().StringVar(&rejectID, "reject", "", "reject the given request id")
	cmd.Flags().StringVar(&reason, "reason", "", "rejection reason")
	return cmd
}
