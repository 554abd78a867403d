package app

import (
	"context"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/process"
	"go.uber.org/zap"

	"github.com/talkincode/voltdesk/internal/domain"
	"github.com/talkincode/voltdesk/pkg/metrics"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
		go a.SchedProcessMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.SchedClearExpireData()
		a.SchedStalePendingSweep()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedSystemMonitorTask system monitor
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	// Collect CPU usage
	_cpuuse, err := cpu.Percent(0, false)
	if err == nil && len(_cpuuse) > 0 {
		metrics.SetGauge("system_cpuuse", int64(_cpuuse[0]*100)) // Store as percentage * 100
	}

	// Collect memory usage
	_meminfo, err := mem.VirtualMemory()
	if err == nil {
		metrics.SetGauge("system_memuse", int64(_meminfo.Used/1024/1024)) //nolint:gosec // G115: memory MB value fits in int64
	}
}

// SchedProcessMonitorTask app process monitor
func (a *Application) SchedProcessMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	p, err := process.NewProcess(int32(os.Getpid())) //nolint:gosec // G115: PID is always within int32 range
	if err != nil {
		return
	}

	// Collect process CPU usage
	cpuuse, err := p.CPUPercent()
	if err == nil {
		metrics.SetGauge("voltdesk_cpuuse", int64(cpuuse*100)) // Store as percentage * 100
	}

	// Collect process memory usage
	meminfo, err := p.MemoryInfo()
	if err == nil {
		metrics.SetGauge("voltdesk_memuse", int64(meminfo.RSS/1024/1024)) //nolint:gosec // G115: memory MB value fits in int64
	}
}

// SchedClearExpireData purges aged operator logs and read notifications
func (a *Application) SchedClearExpireData() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	a.gormDB.
		Where("opt_time < ? ", time.Now().
			Add(-time.Hour*24*365)).Delete(domain.SysOprLog{})

	idays := a.ConfigMgr().GetInt("notify", "PurgeDays", 30)
	if err := a.notifier.Purge(context.Background(), time.Hour*24*time.Duration(idays)); err != nil {
		zap.L().Error("notification purge failed", zap.Error(err))
	}
}

// SchedStalePendingSweep cancels pending orders that were never confirmed
func (a *Application) SchedStalePendingSweep() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	idays := a.ConfigMgr().GetInt("orders", "StalePendingDays", 7)
	cutoff := time.Now().Add(-time.Hour * 24 * time.Duration(idays))

	var stale []domain.Order
	err := a.gormDB.
		Where("status = ? and created_at < ?", domain.OrderStatusPending, cutoff).
		Find(&stale).Error
	if err != nil {
		zap.L().Error("stale order sweep query failed", zap.Error(err))
		return
	}

	ctx := context.Background()
	for _, o := range stale {
		if _, err := a.orders.UpdateStatus(ctx, o.ID, domain.OrderStatusCancelled, "system"); err != nil {
			zap.L().Error("failed to cancel stale order",
				zap.String("order_uid", o.UID),
				zap.Error(err))
			continue
		}
		zap.L().Info("cancelled stale pending order",
			zap.String("order_uid", o.UID),
			zap.Time("created_at", o.CreatedAt))
	}
}
