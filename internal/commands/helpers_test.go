package commands

import "github.com/ledgertriage/ledgertriage/internal/domain/entity"

func tagEntity(name string) *entity.Tag {
	return &entity.Tag{Name: name}
}

func ruleEntity(tagID uint64, contains string) *entity.TagRule {
	return &entity.TagRule{TagID: tagID, Kind: entity.RuleDetailsContains, Value: contains}
}
