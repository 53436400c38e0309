package editor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-forge/internal/types"
)

func sequenceIDs(ids ...string) IDFunc {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func sampleCV() types.CVData {
	cv := types.NewCVData()
	cv.FullName = "Jane Doe"
	cv.Skills = "Go, SQL"
	cv.Experience = []types.Experience{
		{ID: "x1", JobTitle: "Engineer", Company: "Acme"},
		{ID: "x2", JobTitle: "Lead", Company: "Globex"},
		{ID: "x3", JobTitle: "Intern", Company: "Initech"},
	}
	cv.Awards = []types.Award{{ID: "a1", Title: "Hackathon"}}
	return cv
}

func TestUpdateField_ChangesOnlyTarget(t *testing.T) {
	before := sampleCV()

	after, err := UpdateField(before, "email", "jane@example.com")
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", after.Email)
	assert.Empty(t, before.Email)

	after.Email = ""
	assert.Equal(t, before, after)
}

func TestUpdateField_UnknownField(t *testing.T) {
	_, err := UpdateField(sampleCV(), "experience", "x")
	assert.True(t, errors.Is(err, ErrUnknownField))
}

func TestUpdateField_AcceptsEmptyAndMalformed(t *testing.T) {
	after, err := UpdateField(sampleCV(), "email", "not an email")
	require.NoError(t, err)
	assert.Equal(t, "not an email", after.Email)

	after, err = UpdateField(after, "fullName", "")
	require.NoError(t, err)
	assert.Empty(t, after.FullName)
}

func TestAddItem_AppendsWithFreshID(t *testing.T) {
	for _, section := range types.Sections {
		t.Run(string(section), func(t *testing.T) {
			before := sampleCV()

			after, id, err := AddItem(before, section, nil)
			require.NoError(t, err)

			ids := after.IDs(section)
			require.Len(t, ids, len(before.IDs(section))+1)
			assert.NotEmpty(t, id)
			assert.Equal(t, id, ids[len(ids)-1])
			assert.NotContains(t, before.IDs(section), id)
		})
	}
}

func TestAddItem_RegeneratesOnCollision(t *testing.T) {
	after, id, err := AddItem(sampleCV(), types.SectionExperience, sequenceIDs("x1", "x2", "", "x9"))
	require.NoError(t, err)

	assert.Equal(t, "x9", id)
	assert.Equal(t, []string{"x1", "x2", "x3", "x9"}, after.IDs(types.SectionExperience))
	assert.Equal(t, types.Experience{ID: "x9"}, after.Experience[3])
}

func TestAddItem_GivesUpAfterRepeatedCollisions(t *testing.T) {
	_, _, err := AddItem(sampleCV(), types.SectionExperience, sequenceIDs("x1"))
	assert.Error(t, err)
}

func TestAddItem_DoesNotAliasPreviousValue(t *testing.T) {
	before := sampleCV()
	before.Experience = before.Experience[:2:3]

	after, _, err := AddItem(before, types.SectionExperience, sequenceIDs("new"))
	require.NoError(t, err)
	after.Experience[0].JobTitle = "changed"

	assert.Equal(t, "Engineer", before.Experience[0].JobTitle)
}

func TestRemoveItem_PreservesOrder(t *testing.T) {
	before := sampleCV()

	after, err := RemoveItem(before, types.SectionExperience, "x2")
	require.NoError(t, err)

	assert.Equal(t, []string{"x1", "x3"}, after.IDs(types.SectionExperience))
	assert.Equal(t, []string{"x1", "x2", "x3"}, before.IDs(types.SectionExperience))
}

func TestRemoveItem_RemovesExactlyOne(t *testing.T) {
	cv := sampleCV()
	cv.Experience = append(cv.Experience, types.Experience{ID: "x1", JobTitle: "Duplicate"})

	after, err := RemoveItem(cv, types.SectionExperience, "x1")
	require.NoError(t, err)

	assert.Equal(t, []string{"x2", "x3", "x1"}, after.IDs(types.SectionExperience))
}

func TestRemoveItem_NotFound(t *testing.T) {
	_, err := RemoveItem(sampleCV(), types.SectionAwards, "missing")
	assert.True(t, errors.Is(err, ErrItemNotFound))
}

func TestUpdateItem_ChangesOnlyTarget(t *testing.T) {
	before := sampleCV()

	after, err := UpdateItem(before, types.SectionExperience, "x2", "description", "• Led the team")
	require.NoError(t, err)

	assert.Equal(t, "• Led the team", after.Experience[1].Description)
	assert.Empty(t, before.Experience[1].Description)
	assert.Equal(t, before.Experience[0], after.Experience[0])
	assert.Equal(t, before.Experience[2], after.Experience[2])
	assert.Equal(t, before.IDs(types.SectionExperience), after.IDs(types.SectionExperience))
}

func TestUpdateItem_Errors(t *testing.T) {
	cv := sampleCV()

	_, err := UpdateItem(cv, types.SectionExperience, "x1", "id", "other")
	assert.True(t, errors.Is(err, ErrUnknownField))

	_, err = UpdateItem(cv, types.SectionExperience, "missing", "company", "x")
	assert.True(t, errors.Is(err, ErrItemNotFound))

	_, err = UpdateItem(cv, types.SectionMemberships, "x1", "organization", "x")
	assert.True(t, errors.Is(err, ErrItemNotFound))
}

func TestUpdateItem_AllSectionFields(t *testing.T) {
	cv := types.NewCVData()
	cv.Education = []types.Education{{ID: "e1"}}
	cv.Awards = []types.Award{{ID: "a1"}}
	cv.Memberships = []types.Membership{{ID: "m1"}}

	cv, err := UpdateItem(cv, types.SectionEducation, "e1", "degree", "BSc")
	require.NoError(t, err)
	cv, err = UpdateItem(cv, types.SectionAwards, "a1", "issuer", "IEEE")
	require.NoError(t, err)
	cv, err = UpdateItem(cv, types.SectionMemberships, "m1", "organization", "ACM")
	require.NoError(t, err)

	assert.Equal(t, "BSc", cv.Education[0].Degree)
	assert.Equal(t, "IEEE", cv.Awards[0].Issuer)
	assert.Equal(t, "ACM", cv.Memberships[0].Organization)
}

func TestPhoto_SetAndClear(t *testing.T) {
	cv := SetPhoto(sampleCV(), "data:image/png;base64,AAAA")
	assert.Equal(t, "data:image/png;base64,AAAA", cv.PhotoURL)

	cv = ClearPhoto(cv)
	assert.Empty(t, cv.PhotoURL)
}

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		assert.Len(t, id, idLength)
		assert.False(t, seen[id], fmt.Sprintf("duplicate id %s", id))
		seen[id] = true
	}
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestEncodePhoto(t *testing.T) {
	url, err := EncodePhoto(bytes.NewReader(pngHeader), 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"), url)
}

func TestEncodePhoto_TooLarge(t *testing.T) {
	_, err := EncodePhoto(bytes.NewReader(pngHeader), 8)
	assert.True(t, errors.Is(err, ErrPhotoTooLarge))
}

func TestEncodePhoto_NotAnImage(t *testing.T) {
	_, err := EncodePhoto(strings.NewReader("hello, plain text"), 0)
	assert.True(t, errors.Is(err, ErrNotAnImage))
}
