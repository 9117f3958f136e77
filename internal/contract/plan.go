package contract

import "github.com/gokepelemo/biensperience/internal/app"

type CreatePlanRequest = app.CreatePlanRequest

type UpdatePlanItemRequest = app.UpdatePlanItemRequest

type ReplacePlanItemsRequest = app.ReplacePlanItemsRequest

type PlanView = app.PlanView
