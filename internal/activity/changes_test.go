package activity_test

import (
	"time"

	"github.com/frahmantamala/project-management/internal/activity"
	"github.com/frahmantamala/project-management/internal/core/common/workflow"
	"github.com/frahmantamala/project-management/internal/project"
	"github.com/frahmantamala/project-management/internal/task"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FormatChanges", func() {
	due := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)

	It("should report a status change by label", func() {
		before := project.Project{ID: 1, Name: "Website", Status: workflow.StatusNew, Priority: workflow.PriorityLow, DueDate: due}
		after := before
		after.Status = workflow.StatusInProgress

		Expect(activity.FormatChanges(before, after)).To(Equal(map[string]activity.Change{
			"Status": {From: "New", To: "In Progress"},
		}))
	})

	It("should render dates, completion and lists", func() {
		before := task.Task{ID: 2, Title: "Mockups", DueDate: due, Completed: false}
		after := before
		after.DueDate = due.AddDate(0, 0, 5)
		after.Completed = true

		changes := activity.FormatChanges(before, after)
		Expect(changes).To(HaveKeyWithValue("Due Date", activity.Change{From: "3/7/2025", To: "3/12/2025"}))
		Expect(changes).To(HaveKeyWithValue("Completion Status", activity.Change{From: "In Progress", To: "Completed"}))

		p := project.Project{Name: "Website", TeamMembers: []string{"Ann"}}
		q := p
		q.TeamMembers = []string{"Ann", "Bob"}
		Expect(activity.FormatChanges(p, q)).To(HaveKeyWithValue("Team Members", activity.Change{From: "Ann", To: "Ann, Bob"}))
	})

	It("should report nothing for identical records", func() {
		p := project.Project{
			ID: 3, Name: "Website", Description: "Relaunch", Status: workflow.StatusPlanning,
			Priority: workflow.PriorityHigh, DueDate: due, TeamMembers: []string{"Ann", "Bob"},
		}
		Expect(activity.FormatChanges(p, p)).To(BeEmpty())

		t := task.Task{
			ID: 4, Title: "Mockups", Description: "Landing page", Status: workflow.StatusInProgress,
			Priority: workflow.PriorityMedium, ProjectID: 3, ProjectName: "Website", DueDate: due,
			AssignedTo: "Ann", Completed: true, Categories: []string{"Design", "Feature"},
			Dependencies: []int64{1, 2}, StartDate: due.AddDate(0, 0, -3), EstimatedDuration: 2,
		}
		Expect(activity.FormatChanges(t, t)).To(BeEmpty())
		Expect(activity.FormatChanges(&t, &t)).To(BeEmpty())
	})

	It("should skip ids and unlabelled fields", func() {
		before := task.Task{ID: 1, Title: "A", EstimatedDuration: 1}
		after := before
		after.ID = 9
		after.EstimatedDuration = 4
		Expect(activity.FormatChanges(before, after)).To(BeEmpty())
	})

	It("should skip null values and compare maps", func() {
		before := map[string]interface{}{"name": "A", "message": "hi"}
		after := map[string]interface{}{"name": "B", "message": nil}
		Expect(activity.FormatChanges(before, after)).To(Equal(map[string]activity.Change{
			"Name": {From: "A", To: "B"},
		}))
	})

	It("should treat a missing old value as empty", func() {
		changes := activity.FormatChanges(nil, map[string]interface{}{"message": "Welcome"})
		Expect(changes).To(HaveKeyWithValue("Message", activity.Change{From: "", To: "Welcome"}))
	})
})
