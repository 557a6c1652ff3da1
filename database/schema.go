package database

// Schema contains the full database schema. Foreign keys cascade so a
// report delete removes its audits, rescue records and dailies, and a post
// delete removes its comments.
const Schema = `
CREATE TABLE IF NOT EXISTS reports (
    id INT AUTO_INCREMENT PRIMARY KEY,
    description TEXT NOT NULL,
    location_lat DOUBLE NOT NULL,
    location_lng DOUBLE NOT NULL,
    address VARCHAR(500) NOT NULL,
    status ENUM('NEEDS_RESCUE', 'RESCUED') NOT NULL DEFAULT 'NEEDS_RESCUE',
    audit_status ENUM('PENDING', 'APPROVED', 'REJECTED') NOT NULL DEFAULT 'PENDING',
    images JSON,
    videos JSON,
    reporter_name VARCHAR(255),
    reporter_avatar VARCHAR(1024),
    reporter_identity VARCHAR(255),
    ai_analysis TEXT,
    rescue_details TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    INDEX idx_audit_status (audit_status),
    INDEX idx_status (status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;

CREATE TABLE IF NOT EXISTS audit_entries (
    id INT AUTO_INCREMENT PRIMARY KEY,
    report_id INT NOT NULL,
    reviewer_name VARCHAR(255) NOT NULL,
    decision ENUM('PENDING', 'APPROVED', 'REJECTED') NOT NULL,
    comment TEXT,
    request_id VARCHAR(64),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (report_id) REFERENCES reports(id) ON DELETE CASCADE,
    INDEX idx_report (report_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;

CREATE TABLE IF NOT EXISTS rescue_records (
    id INT AUTO_INCREMENT PRIMARY KEY,
    report_id INT NOT NULL,
    rescuer_name VARCHAR(255) NOT NULL,
    rescuer_avatar VARCHAR(1024),
    rescuer_identity VARCHAR(255),
    method VARCHAR(255) NOT NULL,
    location VARCHAR(500),
    notes TEXT,
    photos JSON,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (report_id) REFERENCES reports(id) ON DELETE CASCADE,
    INDEX idx_report (report_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;

CREATE TABLE IF NOT EXISTS community_posts (
    id INT AUTO_INCREMENT PRIMARY KEY,
    report_id INT NULL,
    content TEXT NOT NULL,
    images JSON,
    videos JSON,
    author_name VARCHAR(255),
    author_avatar VARCHAR(1024),
    author_identity VARCHAR(255),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    INDEX idx_report (report_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;

CREATE TABLE IF NOT EXISTS community_comments (
    id INT AUTO_INCREMENT PRIMARY KEY,
    post_id INT NOT NULL,
    parent_id INT NULL,
    content TEXT NOT NULL,
    author_name VARCHAR(255),
    author_avatar VARCHAR(1024),
    author_identity VARCHAR(255),
    reply_to_identity VARCHAR(255),
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (post_id) REFERENCES community_posts(id) ON DELETE CASCADE,
    INDEX idx_post (post_id),
    INDEX idx_reply_to (reply_to_identity, is_read)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;

CREATE TABLE IF NOT EXISTS report_dailies (
    id INT AUTO_INCREMENT PRIMARY KEY,
    report_id INT NOT NULL,
    author_name VARCHAR(255),
    author_avatar VARCHAR(1024),
    content TEXT NOT NULL,
    images JSON,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (report_id) REFERENCES reports(id) ON DELETE CASCADE,
    INDEX idx_report (report_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;

CREATE TABLE IF NOT EXISTS daily_comments (
    id INT AUTO_INCREMENT PRIMARY KEY,
    daily_id INT NOT NULL,
    author_name VARCHAR(255),
    author_avatar VARCHAR(1024),
    content TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (daily_id) REFERENCES report_dailies(id) ON DELETE CASCADE,
    INDEX idx_daily (daily_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;

CREATE TABLE IF NOT EXISTS users (
    id INT AUTO_INCREMENT PRIMARY KEY,
    identity VARCHAR(255) NOT NULL,
    nickname VARCHAR(255),
    avatar_url VARCHAR(1024),
    display_id VARCHAR(6),
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    UNIQUE KEY uniq_identity (identity),
    UNIQUE KEY uniq_display_id (display_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;

CREATE TABLE IF NOT EXISTS admins (
    id INT AUTO_INCREMENT PRIMARY KEY,
    username VARCHAR(255) NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE KEY uniq_username (username)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;

CREATE TABLE IF NOT EXISTS settings (
    setting_key VARCHAR(255) PRIMARY KEY,
    setting_value VARCHAR(255) NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
