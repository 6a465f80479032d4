package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"med-adherence/internal/router"
)

func TestHTTP_EndToEnd_DoseLifecycle(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	userID := "user-1"
	today := "2026-09-01"

	// 1) Alta de medicación twice-daily => schedule derivado [08:00 20:00]
	medID := createMedication(t, ts.URL, userID, map[string]any{
		"name":      "Metformin",
		"dosage":    "500mg",
		"frequency": "twice-daily",
	})

	// 2) Dashboard a las 09:00: la de 08:00 missed, la de 20:00 upcoming
	{
		st, body := doReq(t, ts.URL, "GET", "/dashboard?date="+today+"&now=09:00", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 dashboard, got %d body=%s", st, string(body))
		}

		var resp struct {
			Doses []struct {
				Time   string `json:"time"`
				Status string `json:"status"`
			} `json:"doses"`
			Summary struct {
				TotalDoses int     `json:"total_doses"`
				Adherence  float64 `json:"adherence"`
			} `json:"summary"`
		}
		mustUnmarshal(t, body, &resp)

		if resp.Summary.TotalDoses != 2 {
			t.Fatalf("total doses = %d, want 2", resp.Summary.TotalDoses)
		}
		if resp.Doses[0].Status != "missed" || resp.Doses[1].Status != "upcoming" {
			t.Fatalf("statuses = %s/%s, want missed/upcoming", resp.Doses[0].Status, resp.Doses[1].Status)
		}
		if resp.Summary.Adherence != 0 {
			t.Fatalf("adherence inicial = %v, want 0", resp.Summary.Adherence)
		}
	}

	// 3) Marcar la dosis 0 => adherencia 50.00
	{
		st, body := doReq(t, ts.URL, "POST", "/medications/"+medID+"/doses/0/take?date="+today, userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 take, got %d body=%s", st, string(body))
		}

		var resp struct {
			Time      string  `json:"time"`
			Changed   bool    `json:"changed"`
			Adherence float64 `json:"adherence"`
		}
		mustUnmarshal(t, body, &resp)

		if resp.Time != "08:00" || !resp.Changed {
			t.Fatalf("take = %+v, want Time=08:00 Changed=true", resp)
		}
		if resp.Adherence != 50.00 {
			t.Fatalf("adherence = %v, want 50.00", resp.Adherence)
		}
	}

	// 4) Repetir es idempotente
	{
		st, body := doReq(t, ts.URL, "POST", "/medications/"+medID+"/doses/0/take?date="+today, userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 repeat take, got %d body=%s", st, string(body))
		}
		var resp struct {
			Changed bool `json:"changed"`
		}
		mustUnmarshal(t, body, &resp)
		if resp.Changed {
			t.Fatalf("repeat take debería ser no-op")
		}
	}

	// 5) Índice fuera del schedule vigente => 409
	{
		st, _ := doReq(t, ts.URL, "POST", "/medications/"+medID+"/doses/7/take?date="+today, userID, nil)
		if st != http.StatusConflict {
			t.Fatalf("expected 409 for stale index, got %d", st)
		}
	}

	// 6) El snapshot queda persistido en el historial de adherencia
	{
		st, body := doReq(t, ts.URL, "GET", "/adherence/history?from="+today+"&to="+today, userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 adherence history, got %d body=%s", st, string(body))
		}
		var recs []struct {
			Date    string  `json:"date"`
			Percent float64 `json:"percent"`
		}
		mustUnmarshal(t, body, &recs)
		if len(recs) != 1 || recs[0].Percent != 50.00 {
			t.Fatalf("history = %+v, want un registro con 50.00", recs)
		}
	}

	// 7) Historial de dosis con la acción registrada
	{
		st, body := doReq(t, ts.URL, "GET", "/history?medication_id="+medID, userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 history, got %d body=%s", st, string(body))
		}
		var entries []struct {
			Action   string `json:"action"`
			DoseTime string `json:"dose_time"`
			Date     string `json:"date"`
		}
		mustUnmarshal(t, body, &entries)
		if len(entries) != 1 || entries[0].Action != "taken" || entries[0].DoseTime != "08:00" {
			t.Fatalf("history entries = %+v, want una acción taken 08:00", entries)
		}
	}

	// 8) Desmarcar => adherencia vuelve a 0 y el historial suma "untaken"
	{
		st, body := doReq(t, ts.URL, "POST", "/medications/"+medID+"/doses/0/untake?date="+today, userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 untake, got %d body=%s", st, string(body))
		}
		var resp struct {
			Changed   bool    `json:"changed"`
			Adherence float64 `json:"adherence"`
		}
		mustUnmarshal(t, body, &resp)
		if !resp.Changed || resp.Adherence != 0 {
			t.Fatalf("untake = %+v, want Changed=true Adherence=0", resp)
		}

		st, body = doReq(t, ts.URL, "GET", "/history?action=untaken", userID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 history untaken, got %d body=%s", st, string(body))
		}
		var entries []struct {
			Action string `json:"action"`
		}
		mustUnmarshal(t, body, &entries)
		if len(entries) != 1 {
			t.Fatalf("untaken entries = %+v, want 1", entries)
		}
	}
}

func TestHTTP_Reminders(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	userID := "user-1"
	today := "2026-09-01"

	createMedication(t, ts.URL, userID, map[string]any{
		"name":     "Aspirin",
		"schedule": []string{"08:03", "08:20", "09:30"},
	})

	st, body := doReq(t, ts.URL, "GET", "/dashboard?date="+today+"&now=08:00", userID, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 dashboard, got %d body=%s", st, string(body))
	}

	var resp struct {
		Reminders struct {
			Advance []struct {
				Time string `json:"time"`
			} `json:"advance"`
			DueNow []struct {
				Time string `json:"time"`
			} `json:"due_now"`
		} `json:"reminders"`
	}
	mustUnmarshal(t, body, &resp)

	if len(resp.Reminders.DueNow) != 1 || resp.Reminders.DueNow[0].Time != "08:03" {
		t.Fatalf("due_now = %+v, want [08:03]", resp.Reminders.DueNow)
	}
	if len(resp.Reminders.Advance) != 1 || resp.Reminders.Advance[0].Time != "08:20" {
		t.Fatalf("advance = %+v, want [08:20]", resp.Reminders.Advance)
	}
}

func TestHTTP_CaregiverAccess(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	patientID := "patient-1"
	caregiverID := "caregiver-1"

	createMedication(t, ts.URL, patientID, map[string]any{
		"name":      "Metformin",
		"frequency": "once-daily",
	})

	// 1) Sin vínculo: 403
	{
		st, _ := doReq(t, ts.URL, "GET", "/patients/"+patientID+"/dashboard", caregiverID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 before grant, got %d", st)
		}
	}

	// 2) Paciente genera invitación
	var code, grantID string
	{
		st, body := doReq(t, ts.URL, "POST", "/caregivers/invites", patientID, map[string]any{
			"scopes": []string{"meds:read", "adherence:read"},
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 invite, got %d body=%s", st, string(body))
		}
		var resp struct {
			ID         string `json:"id"`
			AccessCode string `json:"access_code"`
		}
		mustUnmarshal(t, body, &resp)
		if len(resp.AccessCode) != 6 {
			t.Fatalf("access code = %q, want 6 dígitos", resp.AccessCode)
		}
		code, grantID = resp.AccessCode, resp.ID
	}

	// 3) Cuidador canjea el código
	{
		st, body := doReq(t, ts.URL, "POST", "/caregivers/claim", caregiverID, map[string]any{
			"code": code,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 claim, got %d body=%s", st, string(body))
		}
	}

	// 4) Ya puede ver el dashboard del paciente
	{
		st, body := doReq(t, ts.URL, "GET", "/patients/"+patientID+"/dashboard", caregiverID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 patient dashboard, got %d body=%s", st, string(body))
		}
	}

	// 5) ...y su historial de adherencia
	{
		st, _ := doReq(t, ts.URL, "GET", "/patients/"+patientID+"/adherence", caregiverID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 patient adherence, got %d", st)
		}
	}

	// 6) Pero NO el audit log (sin history:read)
	{
		st, _ := doReq(t, ts.URL, "GET", "/patients/"+patientID+"/history", caregiverID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 patient history without scope, got %d", st)
		}
	}

	// 7) Revocar corta el acceso de inmediato
	{
		st, body := doReq(t, ts.URL, "POST", "/caregivers/grants/"+grantID+"/revoke", patientID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 revoke, got %d body=%s", st, string(body))
		}

		st, _ = doReq(t, ts.URL, "GET", "/patients/"+patientID+"/dashboard", caregiverID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 after revoke, got %d", st)
		}
	}
}

func TestHTTP_OwnershipIsolation(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	medID := createMedication(t, ts.URL, "user-1", map[string]any{
		"name":      "Metformin",
		"frequency": "once-daily",
	})

	// Otro usuario no puede mutar dosis ajenas.
	st, _ := doReq(t, ts.URL, "POST", "/medications/"+medID+"/doses/0/take?date=2026-09-01", "user-2", nil)
	if st != http.StatusForbidden {
		t.Fatalf("expected 403 cross-user take, got %d", st)
	}
}

// -------------------------
// Helpers
// -------------------------

func createMedication(t *testing.T, baseURL, userID string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/medications", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create medication, got %d body=%s", st, string(body))
	}

	var resp struct {
		Medication struct {
			ID string `json:"id"`
		} `json:"medication"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Medication.ID == "" {
		t.Fatalf("create medication: missing id body=%s", string(body))
	}
	return resp.Medication.ID
}

func mustUnmarshal(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("unmarshal: %v body=%s", err, string(body))
	}
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("X-Debug-User-ID", debugUserID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, raw
}
