package mail

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderVerificationEscapesUsername(t *testing.T) {
	body := renderVerification(`<script>alert(1)</script>`, "http://localhost:8080/api/v1/verify/tok")

	require.NotContains(t, body, "<script>alert(1)</script>")
	require.Contains(t, body, "&lt;script&gt;alert(1)&lt;/script&gt;")
	require.Contains(t, body, "http://localhost:8080/api/v1/verify/tok")
}
