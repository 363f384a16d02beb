package reagent

import (
	"context"

	"github.com/scienceol/labstock/pkg/common/code"
	"github.com/scienceol/labstock/pkg/core/reagent"
	"github.com/scienceol/labstock/pkg/middleware/db"
	"github.com/scienceol/labstock/pkg/middleware/logger"
	"github.com/scienceol/labstock/pkg/repo"
	"github.com/scienceol/labstock/pkg/repo/model"
	"gorm.io/gorm/clause"
)

type reagentImpl struct {
	*db.Datastore
}

func NewReagentRepo(ds *db.Datastore) repo.ReagentRepo {
	return &reagentImpl{Datastore: ds}
}

// upsertColumns are rewritten when a record id already exists.
var upsertColumns = []string{
	"name", "formula", "cas", "hazard_class", "state", "unit",
	"molecular_weight", "density", "boiling_point", "melting_point",
	"capacity", "current_amount", "cabinet_id", "shelf", "position",
	"expiry_date", "borrow", "last_updated", "updated_at",
}

func (r *reagentImpl) ListReagents(ctx context.Context) ([]*reagent.Record, error) {
	rows := make([]*model.Reagent, 0, 128)
	if err := r.DBWithContext(ctx).Order("reagent_id").Find(&rows).Error; err != nil {
		logger.Errorf(ctx, "ListReagents err: %+v", err)
		return nil, code.QueryRecordErr.WithErr(err)
	}
	out := make([]*reagent.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToRecord())
	}
	return out, nil
}

func (r *reagentImpl) SaveReagent(ctx context.Context, rec *reagent.Record) error {
	row := model.FromRecord(rec)
	err := r.DBWithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "reagent_id"}},
		DoUpdates: clause.AssignmentColumns(upsertColumns),
	}).Create(row).Error
	if err != nil {
		logger.Errorf(ctx, "SaveReagent %s err: %+v", rec.ID, err)
		return code.UpdateDataErr.WithErr(err)
	}
	return nil
}

func (r *reagentImpl) DeleteReagent(ctx context.Context, id string) error {
	res := r.DBWithContext(ctx).Where("reagent_id = ?", id).Delete(&model.Reagent{})
	if res.Error != nil {
		logger.Errorf(ctx, "DeleteReagent %s err: %+v", id, res.Error)
		return code.DeleteDataErr.WithErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return code.RecordNotFound.WithMsg(id)
	}
	return nil
}
