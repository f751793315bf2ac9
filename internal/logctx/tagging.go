package logctx

import (
	"context"
	"logship/internal/global"
	"slices"
)

// Adds a tag to the end of the context tag list.
// Parent contexts never observe the new tag.
func AppendCtxTag(ctx context.Context, newTag string) (newCtx context.Context) {
	tags := append(slices.Clone(GetTagList(ctx)), newTag)
	newCtx = context.WithValue(ctx, global.LogTagsKey, tags)
	return
}

// Drops the most recent tag from the context tag list
func RemoveLastCtxTag(ctx context.Context) (newCtx context.Context) {
	tags := slices.Clone(GetTagList(ctx))
	if len(tags) > 0 {
		tags = tags[:len(tags)-1]
	}
	newCtx = context.WithValue(ctx, global.LogTagsKey, tags)
	return
}

// Replaces the whole tag list
func OverwriteCtxTag(ctx context.Context, newList []string) (newCtx context.Context) {
	newCtx = context.WithValue(ctx, global.LogTagsKey, slices.Clone(newList))
	return
}

// Returns a copy of the context tag list (empty when unset)
func GetTagList(ctx context.Context) (tags []string) {
	stored, ok := ctx.Value(global.LogTagsKey).([]string)
	if !ok {
		tags = []string{}
		return
	}
	tags = slices.Clone(stored)
	if tags == nil {
		tags = []string{}
	}
	return
}
