package translation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fixture() *Unit {
	project := &Project{ID: 1, Slug: "hello", Name: "Hello"}
	sub := &SubProject{ID: 2, Slug: "master", Name: "Master", Project: project}
	tr := &Translation{ID: 3, SubProject: sub, Language: &Language{Code: "cs", Name: "Czech"}}
	return &Unit{ID: 4, Checksum: "abc123", Source: "Hello, world!", Translation: tr}
}

func TestAbsoluteURLs(t *testing.T) {
	unit := fixture()
	tr := unit.Translation

	assert.Equal(t, "/projects/hello/", tr.SubProject.Project.AbsoluteURL())
	assert.Equal(t, "/projects/hello/master/", tr.SubProject.AbsoluteURL())
	assert.Equal(t, "/projects/hello/master/cs/", tr.AbsoluteURL())
	assert.Equal(t, "/projects/hello/master/cs/translate/?checksum=abc123", unit.AbsoluteURL())
}

func TestStringIdentity(t *testing.T) {
	tr := fixture().Translation

	assert.Equal(t, "Hello/Master - Czech", tr.String())
	assert.Equal(t, "Hello/Master", tr.SubProject.String())
	assert.Equal(t, "translation 9", (&Translation{ID: 9}).String())
}

func TestACLProject(t *testing.T) {
	tr := fixture().Translation

	var subjects = []Subject{tr, tr.SubProject, tr.SubProject.Project}
	for _, s := range subjects {
		assert.Same(t, tr.SubProject.Project, s.ACLProject(), s.String())
	}

	assert.Nil(t, (&Translation{}).ACLProject())
	assert.Equal(t, "", (&Translation{}).AbsoluteURL())
}

func TestComment_IsSourceComment(t *testing.T) {
	assert.True(t, (&Comment{Text: "typo"}).IsSourceComment())
	assert.False(t, (&Comment{Text: "typo", Language: &Language{Code: "de"}}).IsSourceComment())
}
