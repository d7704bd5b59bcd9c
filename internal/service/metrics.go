package service

import "github.com/prometheus/client_golang/prometheus"

var (
	usersRegistered = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tm_users_registered_total", Help: "Registered users by role"},
		[]string{"role"},
	)
	loginFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "tm_login_failures_total", Help: "Rejected login attempts"},
	)
	tasksCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "tm_tasks_created_total", Help: "Tasks created"},
	)
	taskStatusChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "tm_task_status_changes_total", Help: "Task status transitions by target status"},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(usersRegistered, loginFailures, tasksCreated, taskStatusChanges)
}
