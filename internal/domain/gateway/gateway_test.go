package gateway

import (
	"encoding/json"
	"errors"
	"math"
	"net/url"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"energy-ops-console/internal/test/testdb"
)

type sample struct {
	ID        uint           `gorm:"primaryKey;column:sample_id" json:"sampleId"`
	Region    string         `gorm:"column:region;size:50" json:"region"`
	Name      string         `gorm:"column:name;size:50" json:"name"`
	Level     int            `gorm:"column:level" json:"level"`
	EventTime time.Time      `gorm:"column:event_time" json:"eventTime"`
	HandledAt *time.Time     `gorm:"column:handled_at" json:"handledAt"`
	Payload   datatypes.JSON `gorm:"column:payload" json:"payload"`
	DelFlag   string         `gorm:"column:del_flag;size:1;default:0" json:"-"`
}

func (sample) TableName() string { return "samples" }

var sampleDescriptor = &Descriptor{
	Name:       "sample",
	PrimaryKey: "sample_id",
	Order:      "event_time DESC, sample_id DESC",
	Filters: []FilterSpec{
		Exact("region", "region"),
		Contains("name", "name"),
		ExactInt("level", "level"),
		TimeRange("startTime", "endTime", "event_time"),
	},
}

var base = time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local)

func seed(t *testing.T, db *gorm.DB) []sample {
	t.Helper()
	regions := []string{"north", "south", "east"}
	names := []string{"pv-array", "wind-turbine", "pv-inverter", "battery"}
	rows := make([]sample, 0, 12)
	for i := 0; i < 12; i++ {
		rows = append(rows, sample{
			Region:    regions[i%3],
			Name:      names[i%4],
			Level:     i % 2,
			EventTime: base.Add(time.Duration(i) * time.Hour),
			DelFlag:   DelFlagExist,
		})
	}
	require.NoError(t, db.Create(&rows).Error)
	return rows
}

func ids(items []sample) []uint {
	out := make([]uint, 0, len(items))
	for _, s := range items {
		out = append(out, s.ID)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestList_FilterCompleteness(t *testing.T) {
	db := testdb.Open(t, &sample{})
	rows := seed(t, db)

	cases := []struct {
		name   string
		params url.Values
		match  func(s sample) bool
	}{
		{"no filters", url.Values{}, func(s sample) bool { return true }},
		{"exact region", url.Values{"region": {"north"}}, func(s sample) bool { return s.Region == "north" }},
		{"contains name", url.Values{"name": {"pv"}}, func(s sample) bool { return s.Name == "pv-array" || s.Name == "pv-inverter" }},
		{"percent is literal", url.Values{"name": {"%"}}, func(s sample) bool { return false }},
		{"underscore is literal", url.Values{"name": {"_"}}, func(s sample) bool { return false }},
		{"escape char is literal", url.Values{"name": {"!"}}, func(s sample) bool { return false }},
		{"int level", url.Values{"level": {"1"}}, func(s sample) bool { return s.Level == 1 }},
		{"unparseable int is absent", url.Values{"level": {"abc"}}, func(s sample) bool { return true }},
		{"unknown param ignored", url.Values{"color": {"red"}}, func(s sample) bool { return true }},
		{"open range start", url.Values{"startTime": {"2024-03-01 14:00:00"}}, func(s sample) bool {
			return !s.EventTime.Before(base.Add(6 * time.Hour))
		}},
		{"closed range inclusive", url.Values{"startTime": {"2024-03-01 10:00:00"}, "endTime": {"2024-03-01 12:00:00"}}, func(s sample) bool {
			return !s.EventTime.Before(base.Add(2*time.Hour)) && !s.EventTime.After(base.Add(4*time.Hour))
		}},
		{"combined", url.Values{"region": {"south"}, "level": {"0"}, "name": {"wind"}}, func(s sample) bool {
			return s.Region == "south" && s.Level == 0 && s.Name == "wind-turbine"
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.params.Set("pageSize", "100")
			page, err := List[sample](db, sampleDescriptor, tc.params)
			require.NoError(t, err)

			expected := make([]sample, 0)
			for _, s := range rows {
				if tc.match(s) {
					expected = append(expected, s)
				}
			}
			assert.Equal(t, int64(len(expected)), page.Total)
			assert.Equal(t, ids(expected), ids(page.Items))
		})
	}
}

func TestList_ContainsMatchesWildcardsLiterally(t *testing.T) {
	db := testdb.Open(t, &sample{})
	rows := []sample{
		{Name: "pv_100%", EventTime: base, DelFlag: DelFlagExist},
		{Name: "pv-1000", EventTime: base.Add(time.Hour), DelFlag: DelFlagExist},
		{Name: "wind!1", EventTime: base.Add(2 * time.Hour), DelFlag: DelFlagExist},
	}
	require.NoError(t, db.Create(&rows).Error)

	for name, want := range map[string][]uint{
		"_1":  {rows[0].ID},
		"0%":  {rows[0].ID},
		"!1":  {rows[2].ID},
		"pv":  {rows[0].ID, rows[1].ID},
		"v_1": {rows[0].ID},
	} {
		page, err := List[sample](db, sampleDescriptor, url.Values{"name": {name}})
		require.NoError(t, err, name)
		assert.Equal(t, want, ids(page.Items), name)
	}

	preds := BuildFilters(sampleDescriptor.Filters, url.Values{"name": {"a%b_c"}})
	require.Len(t, preds, 1)
	assert.Equal(t, "name LIKE ? ESCAPE '!'", preds[0].Query)
	assert.Equal(t, []interface{}{"%a!%b!_c%"}, preds[0].Args)
}

func TestList_AddingFilterNarrows(t *testing.T) {
	db := testdb.Open(t, &sample{})
	seed(t, db)

	params := url.Values{"pageSize": {"100"}}
	wide, err := List[sample](db, sampleDescriptor, params)
	require.NoError(t, err)

	params.Set("region", "east")
	narrow, err := List[sample](db, sampleDescriptor, params)
	require.NoError(t, err)

	params.Set("level", "0")
	narrower, err := List[sample](db, sampleDescriptor, params)
	require.NoError(t, err)

	assert.Subset(t, ids(wide.Items), ids(narrow.Items))
	assert.Subset(t, ids(narrow.Items), ids(narrower.Items))
	assert.LessOrEqual(t, narrower.Total, narrow.Total)
	assert.LessOrEqual(t, narrow.Total, wide.Total)
}

func TestList_PaginationTotals(t *testing.T) {
	db := testdb.Open(t, &sample{})
	rows := seed(t, db)
	require.NoError(t, db.Where("sample_id > ?", rows[6].ID).Delete(&sample{}).Error)

	page, err := List[sample](db, sampleDescriptor, url.Values{"pageNum": {"2"}, "pageSize": {"5"}})
	require.NoError(t, err)
	assert.Equal(t, int64(7), page.Total)
	assert.Len(t, page.Items, 2)

	past, err := List[sample](db, sampleDescriptor, url.Values{"pageNum": {"9"}, "pageSize": {"5"}})
	require.NoError(t, err)
	assert.Equal(t, int64(7), past.Total)
	assert.Empty(t, past.Items)
	assert.NotNil(t, past.Items)

	huge, err := List[sample](db, sampleDescriptor, url.Values{"pageNum": {strconv.Itoa(math.MaxInt)}, "pageSize": {"10"}})
	require.NoError(t, err)
	assert.Equal(t, int64(7), huge.Total)
	assert.Empty(t, huge.Items, "page far past the end must be empty")
}

func TestList_PagesCoverOrderedSet(t *testing.T) {
	db := testdb.Open(t, &sample{})
	seed(t, db)

	all, err := List[sample](db, sampleDescriptor, url.Values{"pageSize": {"100"}})
	require.NoError(t, err)

	var walked []sample
	for n := 1; n <= 3; n++ {
		page, err := List[sample](db, sampleDescriptor, url.Values{"pageNum": {strconv.Itoa(n)}, "pageSize": {"5"}})
		require.NoError(t, err)
		walked = append(walked, page.Items...)
	}
	require.Len(t, walked, len(all.Items))
	for i := range walked {
		assert.Equal(t, all.Items[i].ID, walked[i].ID)
	}
	assert.True(t, all.Items[0].EventTime.After(all.Items[1].EventTime))
}

func TestParsePage(t *testing.T) {
	cases := []struct {
		params url.Values
		want   PageRequest
	}{
		{url.Values{}, PageRequest{1, 10}},
		{url.Values{"pageNum": {"0"}, "pageSize": {"-3"}}, PageRequest{1, 1}},
		{url.Values{"pageNum": {"x"}, "pageSize": {"y"}}, PageRequest{1, 10}},
		{url.Values{"pageNum": {"4"}, "pageSize": {"100000"}}, PageRequest{4, MaxPageSize}},
		{url.Values{"pageNum": {strconv.Itoa(math.MaxInt)}, "pageSize": {"10"}}, PageRequest{MaxPageNum, 10}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParsePage(tc.params))
	}
	assert.Equal(t, 15, PageRequest{PageNum: 4, PageSize: 5}.Offset())
	assert.Positive(t, PageRequest{PageNum: MaxPageNum, PageSize: MaxPageSize}.Normalize().Offset())
}

func TestProject(t *testing.T) {
	handled := time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local)
	s := sample{
		ID:        3,
		Region:    "north",
		EventTime: time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local),
		Payload:   datatypes.JSON(`{"threshold":{"max":90}}`),
		DelFlag:   DelFlagExist,
	}

	out := Project(&s)
	assert.Equal(t, uint(3), out["sampleId"])
	assert.Equal(t, "2024-01-02 03:04:05", out["eventTime"])
	assert.Nil(t, out["handledAt"])
	assert.JSONEq(t, `{"threshold":{"max":90}}`, string(out["payload"].(json.RawMessage)))
	assert.NotContains(t, out, "delFlag")
	assert.NotContains(t, out, "DelFlag")

	s.HandledAt = &handled
	s.Payload = nil
	out = Project(s)
	assert.Equal(t, "2024-05-06 07:08:09", out["handledAt"])
	assert.Nil(t, out["payload"])
}

type Audit struct {
	CreateBy   string    `json:"createBy"`
	CreateTime time.Time `json:"createTime"`
}

type auditedRole struct {
	RoleID uint `json:"roleId"`
	Audit
}

func TestProject_FlattensEmbedded(t *testing.T) {
	out := Project(auditedRole{RoleID: 2, Audit: Audit{CreateBy: "admin"}})
	assert.Equal(t, uint(2), out["roleId"])
	assert.Equal(t, "admin", out["createBy"])
	assert.Nil(t, out["createTime"])
	assert.NotContains(t, out, "Audit")
}

func TestMutate_RollsBackOnError(t *testing.T) {
	db := testdb.Open(t, &sample{})

	boom := errors.New("boom")
	err := Mutate(db, func(tx *gorm.DB) error {
		if err := tx.Create(&sample{Region: "north", EventTime: base, DelFlag: DelFlagExist}).Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&sample{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMutate_CommitFailureSurfaces(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE samples SET region").
		WithArgs("west", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	err = Mutate(db, func(tx *gorm.DB) error {
		return tx.Exec("UPDATE samples SET region = ? WHERE sample_id = ?", "west", 1).Error
	})
	assert.EqualError(t, err, "commit failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_Policies(t *testing.T) {
	db := testdb.Open(t, &sample{})
	rows := seed(t, db)

	soft := *sampleDescriptor
	soft.Deletion = SoftDelete

	require.NoError(t, Mutate(db, func(tx *gorm.DB) error {
		return soft.Delete(tx, &sample{}, rows[0].ID, nil)
	}))

	var kept sample
	require.NoError(t, db.First(&kept, rows[0].ID).Error)
	assert.Equal(t, DelFlagDeleted, kept.DelFlag)

	page, err := List[sample](db, &soft, url.Values{"pageSize": {"100"}})
	require.NoError(t, err)
	assert.Equal(t, int64(len(rows)-1), page.Total)
	assert.NotContains(t, ids(page.Items), rows[0].ID)

	_, err = Get[sample](db, &soft, rows[0].ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = soft.Delete(db, &sample{}, rows[0].ID, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, sampleDescriptor.Delete(db, &sample{}, rows[1].ID, nil))
	var count int64
	require.NoError(t, db.Model(&sample{}).Where("sample_id = ?", rows[1].ID).Count(&count).Error)
	assert.Zero(t, count)

	err = sampleDescriptor.Delete(db, &sample{}, 9999, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

type node struct {
	id, parent uint
	name       string
}

func TestBuildTree(t *testing.T) {
	flat := []node{
		{1, 0, "总公司"},
		{2, 1, "运维部"},
		{3, 1, "交易部"},
		{4, 2, "一组"},
		{5, 0, "分公司"},
		{6, 7, "孤立"},
		{7, 6, "孤立"},
	}
	tree := BuildTree(flat, func(n node) (uint, uint, string) { return n.id, n.parent, n.name })

	require.Len(t, tree, 2)
	assert.Equal(t, "总公司", tree[0].Label)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, uint(2), tree[0].Children[0].ID)
	assert.Equal(t, "一组", tree[0].Children[0].Children[0].Label)
	assert.NotNil(t, tree[1].Children)
	assert.Empty(t, tree[1].Children)
}

func TestFormatTime_RoundTrip(t *testing.T) {
	stamps := []time.Time{
		time.Date(2024, 2, 29, 23, 59, 59, 999000000, time.Local),
		time.Date(1999, 12, 31, 0, 0, 0, 0, time.Local),
		base,
	}
	for _, ts := range stamps {
		formatted, ok := FormatTime(ts).(string)
		require.True(t, ok)
		parsed, err := ParseQueryTime(formatted)
		require.NoError(t, err)
		assert.True(t, ts.Truncate(time.Second).Equal(parsed), formatted)
	}

	assert.Nil(t, FormatTimePtr(nil))
	assert.Nil(t, FormatTime(time.Time{}))

	day, err := ParseQueryTime("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local), day)

	_, err = ParseQueryTime("03/01/2024")
	assert.Error(t, err)
}
