package service

import "fmt"

func welcomeEmailTemplate(name, goalsURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is ready. Set your first goal and start logging progress:
%s

Small steps add up.

Best,
The %s Team`, name, goalsURL, appName)

	return subject, body
}

func consultationBookedEmailTemplate(name, sessionType, when string, duration int, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s consultation is booked", appName)
	body := fmt.Sprintf(`Hi %s,

Your session is confirmed:

  %s
  %s (%d minutes)

If you can't make it, cancel the consultation from your dashboard so the slot can go to someone else.

Best,
The %s Team`, name, sessionType, when, duration, appName)

	return subject, body
}
