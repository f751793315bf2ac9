package logctx

import (
	"context"
	"slices"
	"sync"
	"testing"

	"logship/internal/global"
)

func TestGetTagList(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want []string
	}{
		{"unset", context.Background(), []string{}},
		{"stored list", context.WithValue(context.Background(), global.LogTagsKey, []string{global.NSPipeline, "worker"}), []string{global.NSPipeline, "worker"}},
		{"wrong type", context.WithValue(context.Background(), global.LogTagsKey, 42), []string{}},
		{"nil list", context.WithValue(context.Background(), global.LogTagsKey, []string(nil)), []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetTagList(tt.ctx)
			if got == nil || !slices.Equal(got, tt.want) {
				t.Errorf("GetTagList() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestTagOperations(t *testing.T) {
	base := OverwriteCtxTag(context.Background(), []string{"logship"})

	tests := []struct {
		name string
		op   func(context.Context) context.Context
		want []string
	}{
		{
			name: "append",
			op:   func(ctx context.Context) context.Context { return AppendCtxTag(ctx, "source") },
			want: []string{"logship", "source"},
		},
		{
			name: "append twice then remove",
			op: func(ctx context.Context) context.Context {
				return RemoveLastCtxTag(AppendCtxTag(AppendCtxTag(ctx, "a"), "b"))
			},
			want: []string{"logship", "a"},
		},
		{
			name: "remove past empty",
			op: func(ctx context.Context) context.Context {
				return RemoveLastCtxTag(RemoveLastCtxTag(RemoveLastCtxTag(ctx)))
			},
			want: []string{},
		},
		{
			name: "overwrite then append",
			op: func(ctx context.Context) context.Context {
				return AppendCtxTag(OverwriteCtxTag(ctx, []string{"x", "y"}), "z")
			},
			want: []string{"x", "y", "z"},
		},
		{
			name: "overwrite with nil",
			op:   func(ctx context.Context) context.Context { return OverwriteCtxTag(ctx, nil) },
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetTagList(tt.op(base))
			if !slices.Equal(got, tt.want) {
				t.Errorf("tags = %v, want %v", got, tt.want)
			}
			if parent := GetTagList(base); !slices.Equal(parent, []string{"logship"}) {
				t.Errorf("parent context modified: %v", parent)
			}
		})
	}
}

func TestTagsAreCopied(t *testing.T) {
	list := []string{"a", "b"}
	ctx := OverwriteCtxTag(context.Background(), list)
	list[0] = "changed"

	got := GetTagList(ctx)
	got[1] = "changed"

	if again := GetTagList(ctx); !slices.Equal(again, []string{"a", "b"}) {
		t.Fatalf("stored tags mutated through caller slices: %v", again)
	}
}

func TestTagsConcurrentAppend(t *testing.T) {
	// Spare capacity must not be shared between siblings
	parent := OverwriteCtxTag(context.Background(), make([]string, 1, 16))

	var wg sync.WaitGroup
	results := make([][]string, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx := AppendCtxTag(parent, string(rune('a'+i%26)))
			results[i] = GetTagList(ctx)
		}(i)
	}
	wg.Wait()

	for i, tags := range results {
		want := string(rune('a' + i%26))
		if len(tags) != 2 || tags[1] != want {
			t.Errorf("goroutine %d: tags = %v, want [\"\" %s]", i, tags, want)
		}
	}
}
