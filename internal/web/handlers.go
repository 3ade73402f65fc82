package web

import (
	"net/http"
	"time"

	"github.com/exhibitor-tools/lineup-portal/internal/logging"
	"github.com/exhibitor-tools/lineup-portal/internal/report"
	"github.com/exhibitor-tools/lineup-portal/internal/table"
	mw "github.com/exhibitor-tools/lineup-portal/internal/web/middleware"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// handleLoginForm renders the login page.
func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := mw.SessionFrom(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, r, "login.html", http.StatusOK, map[string]any{
		"Announcement": s.announcementHTML(r),
		"Exhibitor":    "",
	})
}

// handleLogin authenticates an exhibitor. On failure the form re-renders
// with an error and nothing else changes; there is no lockout and no
// logout, matching the access model this portal replaces.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	name := r.FormValue("exhibitor")
	password := r.FormValue("password")

	exhibitor, err := s.gate.Login(name, password)
	if err != nil {
		logging.FromContext(r.Context()).Info("login rejected", "exhibitor", name)
		s.render(w, r, "login.html", http.StatusUnauthorized, map[string]any{
			"Announcement": s.announcementHTML(r),
			"Error":        "Invalid Exhibitor Name or Password. Try again.",
			"Exhibitor":    name,
		})
		return
	}

	token := s.sessions.Create(exhibitor)
	mw.SetSessionCookie(w, token)
	logging.FromContext(r.Context()).Info("login accepted", "exhibitor", exhibitor)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleDashboard renders the two report tables for the logged-in
// exhibitor. ?country= switches the market filter and persists the choice
// on the session.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	session, ok := mw.SessionFrom(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	snap := s.cache.Snapshot()
	countries := report.Countries(snap.Bookings, session.Exhibitor)
	country := s.selectCountry(r, session, countries)

	rep := s.buildReport(snap.Bookings, snap.Lineup, session.Exhibitor, country)

	s.render(w, r, "dashboard.html", http.StatusOK, map[string]any{
		"Exhibitor":       session.Exhibitor,
		"Countries":       countries,
		"SelectedCountry": country,
		"Booked":          rep.Booked,
		"Upcoming":        rep.Upcoming,
		"BookedHeaders":   displayHeaders("Title", "Country_of_Origin", "Release_Date", "Formats_Booked"),
		"UpcomingHeaders": displayHeaders("Title", "Country_of_Origin", "4DX", "SX"),
	})
}

// handleReportJSON returns the same report as JSON for API clients.
func (s *Server) handleReportJSON(w http.ResponseWriter, r *http.Request) {
	session, ok := mw.SessionFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "AUTH002", "login required")
		return
	}

	snap := s.cache.Snapshot()
	countries := report.Countries(snap.Bookings, session.Exhibitor)
	country := s.selectCountry(r, session, countries)

	rep := s.buildReport(snap.Bookings, snap.Lineup, session.Exhibitor, country)

	writeJSON(w, map[string]any{
		"exhibitor": session.Exhibitor,
		"country":   country,
		"booked":    rep.Booked,
		"upcoming":  rep.Upcoming,
	})
}

// handleHealth reports liveness and the age of the current snapshot.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.cache.Snapshot()
	writeJSON(w, map[string]any{
		"status":       "ok",
		"loaded_at":    snap.LoadedAt.UTC().Format(time.RFC3339),
		"booking_rows": snap.Bookings.Len(),
		"lineup_rows":  snap.Lineup.Len(),
	})
}

// selectCountry resolves which market to report on: an explicit ?country=
// wins and is persisted to the session, then the session's stored choice,
// then the exhibitor's first market. The empty string (all markets) results
// only when the exhibitor has no bookings at all.
func (s *Server) selectCountry(r *http.Request, session mw.SessionInfo, countries []string) string {
	if requested := r.URL.Query().Get("country"); requested != "" {
		for _, c := range countries {
			if c == requested {
				s.sessions.SetCountry(session.Token, requested)
				return requested
			}
		}
	}
	if session.SelectedCountry != "" {
		return session.SelectedCountry
	}
	if len(countries) > 0 {
		return countries[0]
	}
	return ""
}

// buildReport applies the year filter and runs the report transformation
// with the configured constants.
func (s *Server) buildReport(bookings, lineup *table.Table, exhibitor, country string) report.Report {
	filtered := report.FilterLineup(lineup, s.cfg.Report.CutoffDate())
	return report.Build(bookings, filtered, report.Params{
		Exhibitor:       exhibitor,
		Country:         country,
		Today:           timeNow(),
		WindowBack:      s.cfg.Report.WindowBackDays,
		WindowForward:   s.cfg.Report.WindowForwardDays,
		ExcludedOrigins: s.cfg.Report.ExcludedOrigins,
		Markers:         report.DefaultMarkers(s.cfg.Report.Marker4DX, s.cfg.Report.MarkerScreenX),
	})
}

// displayHeaders converts normalized column names to their display form.
func displayHeaders(cols ...string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = table.DisplayHeader(c)
	}
	return out
}
