package initial

import (
	"fmt"
	"log"
	"os"
	"time"

	"SupportDesk/internal/config"
	chatEntity "SupportDesk/internal/modules/chat/domain/entity"
	kbEntity "SupportDesk/internal/modules/kb/domain/entity"
	notificationEntity "SupportDesk/internal/modules/notification/domain/entity"
	ticketEntity "SupportDesk/internal/modules/ticket/domain/entity"
	userEntity "SupportDesk/internal/modules/user/domain/entity"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models 需要自动迁移的表
func Models() []interface{} {
	return []interface{}{
		&userEntity.User{},
		&ticketEntity.Ticket{},
		&ticketEntity.Comment{},
		&ticketEntity.Attachment{},
		&ticketEntity.TestingSession{},
		&kbEntity.Article{},
		&notificationEntity.Notification{},
		&chatEntity.Conversation{},
		&chatEntity.ConversationParticipant{},
		&chatEntity.Message{},
		&chatEntity.MessageReadStatus{},
	}
}

func DSN(conf config.MysqlConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		conf.User, conf.Password, conf.Host, conf.Port, conf.DatabaseName)
}

// NewGorm 连接 MySQL 并自动迁移
func NewGorm(conf *config.Config) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	// 重复的已读回执依赖 ErrDuplicatedKey
	db, err := gorm.Open(mysql.Open(DSN(conf.MysqlConfig)), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	// 自动迁移，如果没有建表，会自动创建对应的表
	if err := db.AutoMigrate(Models()...); err != nil {
		return nil, err
	}
	return db, nil
}
