package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestPlaylistGormRepository_DeleteVideoRefs(t *testing.T) {
	gdb, mock := newMockDB(t)
	r := NewPlaylistGormRepository(gdb)

	//どのプレイリストにも入っていない動画でも0件でエラーにしない
	mock.ExpectExec(`DELETE FROM "playlist_videos" WHERE video_id = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := r.DeleteVideoRefs(context.Background(), 10)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// 退会時は所有動画への参照をサブクエリでまとめて外す
func TestPlaylistGormRepository_DeleteVideoRefsByVideoOwner(t *testing.T) {
	gdb, mock := newMockDB(t)
	r := NewPlaylistGormRepository(gdb)

	mock.ExpectExec(`DELETE FROM "playlist_videos" WHERE video_id IN \(SELECT .?id.? FROM "videos" WHERE owner_id = \$\d+\)`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := r.DeleteVideoRefsByVideoOwner(context.Background(), 1)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
