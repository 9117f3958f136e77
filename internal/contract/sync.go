package contract

import "github.com/gokepelemo/biensperience/internal/app"

type DivergenceReport = app.DivergenceReport

type ChangesetPreview = app.ChangesetPreview

type ApplySyncRequest = app.ApplySyncRequest

type AppliedCounts = app.AppliedCounts

type ApplySyncResponse = app.ApplySyncResponse
