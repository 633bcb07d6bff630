package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/temsafy/temsafy/internal/config"
	"github.com/temsafy/temsafy/internal/services"
	"github.com/temsafy/temsafy/internal/services/department"
	"github.com/temsafy/temsafy/internal/services/project"
	"github.com/temsafy/temsafy/internal/services/task"
	"github.com/temsafy/temsafy/internal/services/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a small demo dataset",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		svc := services.NewServices(config.ReadConfig())
		defer svc.Stop()

		ops, err := svc.Department.Create(ctx, &department.CreateDepartmentRequest{Name: "Operations"})
		if err != nil {
			fmt.Println("Unable to seed department", err)
			os.Exit(1)
		}

		manager, err := svc.User.Create(ctx, &user.CreateUserRequest{
			Name:     "Maya Kim",
			Email:    "maya@temsafy.local",
			Password: "changeme",
			Role:     "MANAGER",
			Capacity: ptrFloat(40),
		})
		if err != nil {
			fmt.Println("Unable to seed manager", err)
			os.Exit(1)
		}

		field, err := svc.User.Create(ctx, &user.CreateUserRequest{
			Name:         "Jon Ortiz",
			Email:        "jon@temsafy.local",
			Password:     "changeme",
			Role:         "FIELD",
			Capacity:     ptrFloat(8),
			DepartmentID: &ops.ID,
		})
		if err != nil {
			fmt.Println("Unable to seed field user", err)
			os.Exit(1)
		}

		proj, err := svc.Project.Create(ctx, &project.CreateProjectRequest{
			Name:          "Site Survey",
			DepartmentIDs: []uuid.UUID{ops.ID},
		})
		if err != nil {
			fmt.Println("Unable to seed project", err)
			os.Exit(1)
		}

		_, err = svc.Task.Create(ctx, &task.CreateTaskRequest{
			Title:          "Initial site walkthrough",
			Priority:       "HIGH",
			EstimatedHours: ptrFloat(4),
			AssigneeID:     &field.ID,
			ProjectID:      proj.ID,
			DepartmentID:   &ops.ID,
		}, manager.ID)
		if err != nil {
			fmt.Println("Unable to seed task", err)
			os.Exit(1)
		}

		fmt.Println("Seed data loaded")
	},
}

func ptrFloat(f float64) *float64 { return &f }

func init() {
	rootCmd.AddCommand(seedCmd)
}
