package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/osheen/internal/client/client"
	"github.com/dmitrijs2005/osheen/internal/client/models"
	"github.com/dmitrijs2005/osheen/internal/client/services"
	"github.com/dmitrijs2005/osheen/internal/client/session"
	"github.com/dmitrijs2005/osheen/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for name, email, phone and password and creates an
// account. A successful sign-up also logs the new user in.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Enter phone (optional)", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	_, err = a.authService.SignUp(ctx, client.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: string(password),
		Phone:    phone,
	})
	if err != nil {
		a.report(ctx, "Registration failed", err)
		return err
	}
	return nil
}

// Login prompts the user for credentials and tries to authenticate.
// The password is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.authService.SignIn(ctx, email, password); err != nil {
		a.report(ctx, "Login unsuccessful", err)
		return err
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.SignOut(ctx); err != nil {
		a.report(ctx, "Logout incomplete", err)
		return err
	}
	return nil
}

// WhoAmI prints the profile of the logged-in user.
func (a *App) WhoAmI(ctx context.Context) error {
	st := a.session.Snapshot()
	if !st.IsAuthenticated {
		printlnFn("Not logged in")
		return nil
	}
	printProfile(st.User)
	printlnFn("Token:", common.MaskToken(st.Token))
	if st.LastCheck != nil {
		printlnFn("Last check:", st.LastCheck.Outcome, st.LastCheck.At.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// Check reconciles the session with the backend now and prints the outcome.
func (a *App) Check(ctx context.Context) error {
	res := a.authService.Refresh(ctx)
	switch res.Outcome {
	case session.OutcomeNoSession:
		printlnFn("No session to check")
	case session.OutcomeConfirmed:
		printlnFn("Session confirmed")
	case session.OutcomeRejected:
		// the eviction notice is printed by the session subscriber
	case session.OutcomeInconclusive:
		printlnFn("Could not confirm session, it is kept for now:", res.Err)
	}
	return res.Err
}

// Profile prompts for the editable profile fields; empty answers keep the
// current value.
func (a *App) Profile(ctx context.Context) error {
	if !a.isLoggedIn() {
		printlnFn("Please log in first")
		return session.ErrNotAuthenticated
	}

	var upd client.ProfileUpdate
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Name", &upd.Name},
		{"Phone", &upd.Phone},
		{"Avatar URL", &upd.Avatar},
		{"Date of birth (YYYY-MM-DD)", &upd.DateOfBirth},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt+" (empty to keep)", a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	user, err := a.authService.EditProfile(ctx, upd)
	if err != nil {
		if errors.Is(err, services.ErrNothingToUpdate) {
			printlnFn("Nothing changed")
			return nil
		}
		a.report(ctx, "Profile update failed", err)
		return err
	}
	printlnFn("Profile updated")
	printProfile(user)
	return nil
}

// report prints a short, user-facing reason for err and logs the details.
func (a *App) report(ctx context.Context, what string, err error) {
	a.log.Debug(ctx, what, "err", err)

	var apiErr *client.APIError
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		printlnFn(what+":", err)
	case errors.Is(err, client.ErrUnavailable):
		printlnFn(what + ": server unavailable, try again later")
	case errors.Is(err, client.ErrUnauthorized):
		printlnFn(what + ": invalid credentials")
	case errors.As(err, &apiErr) && apiErr.Message != "":
		printlnFn(what+":", apiErr.Message)
	default:
		printlnFn(what+":", err)
	}
}

func printProfile(u *models.User) {
	if u == nil {
		return
	}
	rows := [][2]string{
		{"ID", u.ID},
		{"Email", u.Email},
		{"Name", u.Name},
		{"Phone", u.Phone},
		{"Membership", u.Membership},
		{"Joined", u.JoinDate},
		{"Date of birth", u.DateOfBirth},
	}
	if u.LoyaltyPoints != 0 {
		rows = append(rows, [2]string{"Loyalty points", strconv.Itoa(u.LoyaltyPoints)})
	}
	for _, r := range rows {
		if r[1] != "" {
			printlnFn(fmt.Sprintf("%-15s %s", r[0]+":", r[1]))
		}
	}
}
