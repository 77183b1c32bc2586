//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cucumber/godog"
)

// RegisterSteps registers all step definitions.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Background steps
	ctx.Step(`^the privacy service is running$`, tc.serviceIsRunning)
	ctx.Step(`^I am a registered user$`, tc.registeredUser)
	ctx.Step(`^I am the seeded demo user$`, tc.seededDemoUser)

	// Consent steps
	ctx.Step(`^I grant the "([^"]*)" consent$`, tc.grantConsent)
	ctx.Step(`^I revoke the "([^"]*)" consent$`, tc.revokeConsent)
	ctx.Step(`^I list my consents$`, tc.listConsents)
	ctx.Step(`^I request the consent type catalog$`, tc.consentTypes)

	// Data request steps
	ctx.Step(`^I submit a "([^"]*)" data request$`, tc.submitDataRequest)
	ctx.Step(`^I save the request id$`, tc.saveRequestID)
	ctx.Step(`^I cancel the saved request$`, tc.cancelSavedRequest)
	ctx.Step(`^I request a data export$`, tc.requestExport)
	ctx.Step(`^I wait for the export to complete$`, tc.waitForExport)
	ctx.Step(`^I download the export without an identity header$`, tc.downloadExport)
	ctx.Step(`^I fetch my privacy overview$`, tc.fetchOverview)
	ctx.Step(`^I GET "([^"]*)" without an identity header$`, tc.getWithoutIdentity)

	// Assertion steps
	ctx.Step(`^the response status should be (\d+)$`, tc.responseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.responseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, tc.responseFieldShouldEqual)
	ctx.Step(`^the request should have a cooling-off deadline$`, tc.requestShouldHaveCoolingOff)
}

func (tc *TestContext) serviceIsRunning(ctx context.Context) error {
	return tc.GET("/healthz", nil)
}

func (tc *TestContext) registeredUser(ctx context.Context) error {
	// Identity travels in the X-User-ID header; nothing to provision.
	return nil
}

// seededDemoUser switches to the fixed demo identity that the seeder loads
// into the user directory (run the server with PRIVACY_SEED_DEMO_DATA=true).
func (tc *TestContext) seededDemoUser(ctx context.Context) error {
	tc.UserID = "11111111-1111-1111-1111-111111111111"
	return nil
}

func (tc *TestContext) grantConsent(ctx context.Context, consentType string) error {
	return tc.POST("/v1/consents", map[string]interface{}{
		"type":    consentType,
		"granted": true,
	})
}

func (tc *TestContext) revokeConsent(ctx context.Context, consentType string) error {
	return tc.POST("/v1/consents", map[string]interface{}{
		"type":    consentType,
		"granted": false,
	})
}

func (tc *TestContext) listConsents(ctx context.Context) error {
	return tc.GET("/v1/consents", nil)
}

func (tc *TestContext) consentTypes(ctx context.Context) error {
	return tc.GET("/v1/consents/types", nil)
}

func (tc *TestContext) submitDataRequest(ctx context.Context, requestType string) error {
	return tc.POST("/v1/data-requests", map[string]interface{}{
		"type": requestType,
	})
}

func (tc *TestContext) saveRequestID(ctx context.Context) error {
	id, err := tc.GetRequestField("id")
	if err != nil {
		return err
	}
	tc.RequestID = id.(string)
	return nil
}

func (tc *TestContext) cancelSavedRequest(ctx context.Context) error {
	if tc.RequestID == "" {
		return fmt.Errorf("no request id saved")
	}
	return tc.DELETE("/v1/data-requests/" + tc.RequestID)
}

func (tc *TestContext) requestExport(ctx context.Context) error {
	if err := tc.POST("/v1/data-requests/export", nil); err != nil {
		return err
	}
	return tc.saveRequestID(ctx)
}

// waitForExport polls the request until the export pipeline finishes.
func (tc *TestContext) waitForExport(ctx context.Context) error {
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if err := tc.GET("/v1/data-requests/"+tc.RequestID, nil); err != nil {
			return err
		}

		var request struct {
			Status      string  `json:"status"`
			DownloadURL *string `json:"download_url"`
		}
		if err := json.Unmarshal(tc.LastResponseBody, &request); err != nil {
			return fmt.Errorf("failed to parse request: %w", err)
		}

		switch request.Status {
		case "completed":
			if request.DownloadURL == nil {
				return fmt.Errorf("completed export has no download url")
			}
			tc.DownloadURL = *request.DownloadURL
			return nil
		case "failed":
			return fmt.Errorf("export failed: %s", string(tc.LastResponseBody))
		}

		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("export did not complete in time")
}

func (tc *TestContext) downloadExport(ctx context.Context) error {
	if tc.DownloadURL == "" {
		return fmt.Errorf("no download url saved")
	}
	return tc.GET(tc.DownloadURL, map[string]string{"X-User-ID": ""})
}

func (tc *TestContext) fetchOverview(ctx context.Context) error {
	return tc.GET("/v1/privacy/overview", nil)
}

func (tc *TestContext) getWithoutIdentity(ctx context.Context, path string) error {
	return tc.GET(path, map[string]string{"X-User-ID": ""})
}

func (tc *TestContext) responseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	if tc.LastResponse.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d but got %d", expectedStatus, tc.LastResponse.StatusCode)
	}
	return nil
}

func (tc *TestContext) responseShouldContain(ctx context.Context, field string) error {
	if !tc.ResponseContains(field) {
		return fmt.Errorf("response does not contain field: %s\nResponse: %s", field, string(tc.LastResponseBody))
	}
	return nil
}

func (tc *TestContext) responseFieldShouldEqual(ctx context.Context, field, expectedValue string) error {
	var data map[string]interface{}
	if err := json.Unmarshal(tc.LastResponseBody, &data); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	actualValue, ok := data[field]
	if !ok {
		return fmt.Errorf("field %s not found in response", field)
	}

	if fmt.Sprint(actualValue) != expectedValue {
		return fmt.Errorf("field %s: expected %s but got %v", field, expectedValue, actualValue)
	}
	return nil
}

func (tc *TestContext) requestShouldHaveCoolingOff(ctx context.Context) error {
	ends, err := tc.GetRequestField("cooling_off_ends_at")
	if err != nil {
		return err
	}
	if _, err := time.Parse(time.RFC3339, fmt.Sprint(ends)); err != nil {
		return fmt.Errorf("cooling_off_ends_at is not a timestamp: %v", ends)
	}
	return nil
}
