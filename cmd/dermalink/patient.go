package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"dermalink/mobile/internal/api"
	"dermalink/mobile/internal/geo"
	"dermalink/mobile/internal/models"
)

func (a *app) doctorsCmd() *cobra.Command {
	var location, search string
	var near bool

	cmd := &cobra.Command{
		Use:   "doctors",
		Short: "Browse the doctor directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, token, err := a.requireRole(cmd.Context(), models.RolePatient)
			if err != nil {
				return err
			}

			loc := location
			if loc == "" {
				loc = user.Location
			}

			doctors, err := a.api.DoctorList(cmd.Context(), token, loc)
			if err != nil {
				return err
			}

			doctors = api.FilterDoctorsByName(doctors, search)
			if near {
				doctors = geo.RankDoctorsByDistance(doctors, user.Location)
			}

			if len(doctors) == 0 {
				fmt.Println("No doctors found.")
				return nil
			}
			origin, hasOrigin := geo.CityPoint(user.Location)
			for _, d := range doctors {
				line := fmt.Sprintf("%s  %s (%s)", d.ID, d.FullName(), d.Location)
				if near && hasOrigin {
					if p, ok := geo.CityPoint(d.Location); ok {
						line += fmt.Sprintf("  %.0f km", geo.Haversine(origin, p))
					}
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&location, "location", "", "governorate (defaults to your profile)")
	cmd.Flags().StringVar(&search, "search", "", "filter by doctor name")
	cmd.Flags().BoolVar(&near, "near", false, "sort by distance from your governorate")
	return cmd
}

func (a *app) appointmentsCmd() *cobra.Command {
	var status string
	var today, archive bool
	var archiveID string

	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "List your consultations",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, token, err := a.requireRole(cmd.Context(), models.RolePatient)
			if err != nil {
				return err
			}

			if archive {
				if archiveID == "" {
					return fmt.Errorf("--id is required with --archive")
				}
				if err := a.api.ArchiveConsultation(cmd.Context(), token, archiveID); err != nil {
					return err
				}
				fmt.Println("Consultation archived.")
				return nil
			}

			var list []models.Consultation
			if today {
				list, err = a.api.ConsultationsToday(cmd.Context(), token, user.ID)
			} else {
				list, err = a.api.PatientAppointments(cmd.Context(), token, user.ID)
			}
			if err != nil {
				return err
			}

			if status != "" {
				list = models.FilterByStatus(list, models.ConsultationStatus(status))
			}
			printConsultations(list)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter: pending, approved or rejected")
	cmd.Flags().BoolVar(&today, "today", false, "only today's consultations")
	cmd.Flags().BoolVar(&archive, "archive", false, "archive a consultation instead of listing")
	cmd.Flags().StringVar(&archiveID, "id", "", "consultation id to archive")
	return cmd
}

func (a *app) bookCmd() *cobra.Command {
	var doctorID, date, slot, reason string

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book a consultation slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, token, err := a.requireRole(cmd.Context(), models.RolePatient)
			if err != nil {
				return err
			}
			if doctorID == "" || date == "" {
				return fmt.Errorf("--doctor and --date are required")
			}

			if slot == "" {
				slots, err := a.api.AvailableTimeSlots(cmd.Context(), token, date, doctorID)
				if err != nil {
					return err
				}
				if len(slots) == 0 {
					fmt.Println("No available slots for this day.")
					return nil
				}
				fmt.Printf("Available on %s:\n", date)
				for _, s := range slots {
					fmt.Println(" ", s.Time)
				}
				fmt.Println("Re-run with --time to confirm.")
				return nil
			}

			booked, err := a.api.BookConsultation(cmd.Context(), token, api.BookingInput{
				DoctorID: doctorID,
				Date:     date,
				Time:     slot,
				Reason:   reason,
			})
			if err != nil {
				return err
			}
			fmt.Printf("Requested %s at %s (status %s).\n", booked.Date, booked.Time, booked.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&doctorID, "doctor", "", "doctor id")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&slot, "time", "", "time slot, omit to list availability")
	cmd.Flags().StringVar(&reason, "reason", "", "reason for the visit")
	return cmd
}

func (a *app) scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <image>",
		Short: "Send a skin photo to the AI classifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, token, err := a.requireRole(cmd.Context(), models.RolePatient)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			pred, err := a.api.Predict(cmd.Context(), token, user.ID, api.Attachment{
				Name:   filepath.Base(args[0]),
				Reader: f,
			})
			if err != nil {
				if errors.Is(err, api.ErrNotSkinImage) {
					return fmt.Errorf("that image was not recognized as skin, try another photo")
				}
				return err
			}

			fmt.Printf("%s (%.1f%% confidence)\n", pred.Class, pred.Confidence*100)
			return nil
		},
	}
}

func (a *app) maladiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "maladies",
		Short: "Browse the disease dictionary",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, token, err := a.requireRole(cmd.Context(), "")
			if err != nil {
				return err
			}

			maladies, err := a.api.Maladies(cmd.Context(), token)
			if err != nil {
				return err
			}
			for _, m := range maladies {
				fmt.Printf("%s: %s\n", m.Name, m.Description)
			}
			return nil
		},
	}
}

func (a *app) profileCmd() *cobra.Command {
	var firstname, lastname, phone, location, avatarPath string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := a.requireRole(cmd.Context(), ""); err != nil {
				return err
			}

			fields := map[string]string{}
			if firstname != "" {
				fields["firstname"] = firstname
			}
			if lastname != "" {
				fields["lastname"] = lastname
			}
			if phone != "" {
				fields["phone"] = phone
			}
			if location != "" {
				fields["location"] = location
			}

			var avatar *api.Attachment
			if avatarPath != "" {
				f, err := os.Open(avatarPath)
				if err != nil {
					return err
				}
				defer f.Close()
				avatar = &api.Attachment{Name: filepath.Base(avatarPath), Reader: f}
			}

			if len(fields) == 0 && avatar == nil {
				return fmt.Errorf("nothing to update")
			}

			user, err := a.resolver.SyncProfile(cmd.Context(), fields, avatar)
			if err != nil {
				return err
			}
			fmt.Printf("Profile updated: %s (%s)\n", user.FullName(), user.Location)
			return nil
		},
	}

	cmd.Flags().StringVar(&firstname, "firstname", "", "first name")
	cmd.Flags().StringVar(&lastname, "lastname", "", "last name")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&location, "location", "", "governorate")
	cmd.Flags().StringVar(&avatarPath, "avatar", "", "path to a new profile image")
	return cmd
}

func printConsultations(list []models.Consultation) {
	if len(list) == 0 {
		fmt.Println("No consultations.")
		return
	}
	for _, c := range list {
		line := fmt.Sprintf("%s  %s %s  %s", c.ID, c.Date, c.Time, c.Status)
		if c.DoctorName != "" {
			line += "  Dr. " + c.DoctorName
		}
		if c.PatientName != "" {
			line += "  " + c.PatientName
		}
		if c.RefusReason != "" {
			line += "  (" + c.RefusReason + ")"
		}
		fmt.Println(line)
	}
}
