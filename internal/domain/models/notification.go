package models

import "fmt"

type NotificationKind string

const (
	KindStatus NotificationKind = "status"
	KindError  NotificationKind = "error"
)

const (
	statusChangedTemplate = `Changed review status for "%s". %s`
	failureTemplate       = "Operation failure: %v"
)

func StatusChangedText(hw Homework, verdict string) string {
	return fmt.Sprintf(statusChangedTemplate, hw.Name, verdict)
}

func FailureText(err error) string {
	return fmt.Sprintf(failureTemplate, err)
}
