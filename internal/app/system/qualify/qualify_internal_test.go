package qualify

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDiff(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()

	tests := []struct {
		name string
		old  []primitive.ObjectID
		new  []primitive.ObjectID
		want int
	}{
		{name: "no change", old: []primitive.ObjectID{a, b}, new: []primitive.ObjectID{a, b}, want: 0},
		{name: "one replaced", old: []primitive.ObjectID{a, b}, new: []primitive.ObjectID{a, c}, want: 1},
		{name: "all removed", old: []primitive.ObjectID{a, b}, new: nil, want: 2},
		{name: "swap within set", old: []primitive.ObjectID{a, b}, new: []primitive.ObjectID{b, a}, want: 0},
		{name: "empty old", old: nil, new: []primitive.ObjectID{a}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := diff(tt.old, tt.new)
			if len(got) != tt.want {
				t.Errorf("diff: got %d removed, want %d", len(got), tt.want)
			}
		})
	}
}
