package contract

import "github.com/gokepelemo/biensperience/internal/app"

type CreateExperienceRequest = app.CreateExperienceRequest

type AddTemplateItemRequest = app.AddTemplateItemRequest

type UpdateTemplateItemRequest = app.UpdateTemplateItemRequest

type ImportResult = app.ImportResult
