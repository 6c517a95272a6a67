package application

import (
	"io"
	"strings"
	"testing"

	"github.com/linskybing/orgflow/internal/config"
	"github.com/linskybing/orgflow/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachment_UploadAndDownload(t *testing.T) {
	e := newEnv(t)
	orig := config.MaxUploadMB
	config.MaxUploadMB = 1
	t.Cleanup(func() { config.MaxUploadMB = orig })

	body := "%PDF-1.4 receipt"
	att, err := e.svc.Attachment.Upload(e.ctx, e.employee, "../Receipt.PDF", strings.NewReader(body), int64(len(body)), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "Receipt.PDF", att.Filename)
	assert.True(t, strings.HasSuffix(att.ObjectKey, ".pdf"))

	got, rc, err := e.svc.Attachment.Download(e.ctx, e.accountant, att.ID)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, body, string(data))
	assert.Equal(t, att.ObjectKey, got.ObjectKey)

	outsider := e.addMember(t, e.newGroup(t, "Sales"), "dave", "ADMIN")
	_, _, err = e.svc.Attachment.Download(e.ctx, outsider, att.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestAttachment_UploadLimits(t *testing.T) {
	e := newEnv(t)
	orig := config.MaxUploadMB
	config.MaxUploadMB = 1
	t.Cleanup(func() { config.MaxUploadMB = orig })

	_, err := e.svc.Attachment.Upload(e.ctx, e.employee, "big.bin", strings.NewReader(""), 2<<20, "")
	assert.EqualError(t, err, "file exceeds the 1 MB limit")

	_, err = e.svc.Attachment.Upload(e.ctx, e.employee, "empty.txt", strings.NewReader(""), 0, "")
	assert.EqualError(t, err, "file is empty")
}
